//go:build e2e && unix

package main

import (
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSyntheticRowsLoad(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp("-rows", "500"), "Failed to start app")
	require.True(t, tf.Ready(), "Should show vscroll title")
	require.True(t, tf.SeePlain("Row "), "Should render loaded rows")
	require.True(t, tf.SeePlain(" of "), "Should show the window status")
}

func TestDirectoryJumps(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")
	root, err := tf.CreateFiles("tree", 40)
	require.NoError(t, err, "Failed to create files")

	require.NoError(t, tf.StartApp("-d", root), "Failed to start app")
	require.True(t, tf.Ready(), "Should show vscroll title")
	require.True(t, tf.SeePlain("file-00.txt"), "Should show the first file")
	require.True(t, tf.SeePlain("All rows loaded"), "Small tree should be loaded at once")

	require.NoError(t, tf.SendKeys(KeyBottom))
	if !tf.SeePlain("file-39.txt") {
		tf.DumpTailOnFail(t, "bottom", 4096)
		t.Fatal("Should jump to the last file")
	}

	tf.ClearOutput()
	require.NoError(t, tf.SendKeys(KeyTop))
	require.True(t, tf.SeePlain("file-00.txt"), "Should jump back to the first file")
}

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp("-rows", "50"), "Failed to start app")
	require.True(t, tf.Ready(), "Should show vscroll title")

	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()

	require.NoError(t, tf.Quit())

	select {
	case err := <-done:
		require.NoError(t, err, "Process should exit cleanly")
	case <-time.After(2 * time.Second):
		tf.DumpTailOnFail(t, "exit-failure", 4096)
		_ = tf.SendKeys(KeyCtrlC)
		t.Fatal("Application did not exit after quit")
	}
}

func TestHelpFlag(t *testing.T) {
	t.Parallel()

	out, err := exec.Command(binPath, "-help").CombinedOutput()
	require.NoError(t, err, "Help should exit cleanly")
	require.Contains(t, string(out), "-dir")
	require.Contains(t, string(out), "-rows")
}

func TestTraceDemo(t *testing.T) {
	t.Parallel()

	out, err := exec.Command(traceBinPath).CombinedOutput()
	require.NoError(t, err, "Trace demo should run")
	require.Contains(t, string(out), "> mount")
	require.Contains(t, string(out), "phase destroyed")
}
