package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/noborus/ov/oviewer"
	"github.com/spf13/cobra"

	"vscroll/internal/config"
)

// Config holds the command line settings
type Config struct {
	ConfigFile   string
	PageSize     int
	SegmentSize  int
	TriggerRatio float64
	RowHeight    float64
	Pager        bool
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "vscroll-trace [flags] [script|-]",
		Short: "Replay a scroll session against the windowing engine",
		Long: `vscroll-trace feeds a script of viewport events to the windowing engine
and prints the window, the placeholders and every event it produces.
Without a script a built-in demo session is replayed.`,
		Example: `  # Replay the demo session
  vscroll-trace

  # Replay a script with a smaller page size
  vscroll-trace --page-size 20 session.txt

  # Read the script from stdin and browse the trace
  cat session.txt | vscroll-trace --pager -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := openScript(args)
			if err != nil {
				return err
			}
			defer script.Close()

			settings, err := loadScrollSettings(cmd, cfg)
			if err != nil {
				return err
			}

			if !cfg.Pager {
				return newTracer(cmd.OutOrStdout(), settings.ScrollOptions(), cfg.RowHeight).Run(script)
			}

			var buf bytes.Buffer
			if err := newTracer(&buf, settings.ScrollOptions(), cfg.RowHeight).Run(script); err != nil {
				return err
			}
			return showInPager(buf.String())
		},
	}

	rootCmd.Flags().StringVarP(&cfg.ConfigFile, "config", "c", "", "Read scroll settings from a config file")
	rootCmd.Flags().IntVar(&cfg.PageSize, "page-size", 0, "Rows in a window built without known heights")
	rootCmd.Flags().IntVar(&cfg.SegmentSize, "segment-size", 0, "Rows added per directional shift")
	rootCmd.Flags().Float64Var(&cfg.TriggerRatio, "trigger-ratio", 0, "Trigger band as a share of the viewport")
	rootCmd.Flags().Float64Var(&cfg.RowHeight, "row-height", 20, "Height measured for rows without a declared height")
	rootCmd.Flags().BoolVarP(&cfg.Pager, "pager", "p", false, "Browse the trace in a pager")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openScript(args []string) (io.ReadCloser, error) {
	switch {
	case len(args) == 0:
		return io.NopCloser(strings.NewReader(demoScript)), nil
	case args[0] == "-":
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	return f, nil
}

// loadScrollSettings starts from the config file, if any, and applies the
// flags the user set explicitly
func loadScrollSettings(cmd *cobra.Command, cfg Config) (*config.Config, error) {
	settings := config.DefaultConfig()
	if cfg.ConfigFile != "" {
		var err error
		settings, err = config.NewConfigService().LoadFromPath(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("page-size") {
		settings.Scroll.PageSize = cfg.PageSize
	}
	if flags.Changed("segment-size") {
		settings.Scroll.SegmentSize = cfg.SegmentSize
	}
	if flags.Changed("trigger-ratio") {
		settings.Scroll.TriggerRatio = cfg.TriggerRatio
	}
	settings.Validate()
	return settings, nil
}

func showInPager(content string) error {
	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to open pager: %w", err)
	}

	pagerConfig := oviewer.NewConfig()
	pagerConfig.IsWriteOnExit = false
	pagerConfig.IsWriteOriginal = false
	root.SetConfig(pagerConfig)

	return root.Run()
}
