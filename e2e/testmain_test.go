//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"testing"
)

func TestMain(m *testing.M) {
	e2eDir, err := os.Getwd()
	if err != nil {
		fmt.Printf("Failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	binPath = e2eDir + "/vscroll_e2e"
	traceBinPath = e2eDir + "/vscroll_trace_e2e"

	fmt.Println("Building test binaries from main project...")
	for bin, pkg := range map[string]string{binPath: ".", traceBinPath: "./cmd/vscroll-trace"} {
		cmd := exec.Command("go", "build", "-o", bin, pkg)
		cmd.Dir = ".."
		if out, err := cmd.CombinedOutput(); err != nil {
			fmt.Printf("Failed to build %s: %v\n%s", pkg, err, out)
			os.Exit(1)
		}
	}

	code := m.Run()

	os.Remove(binPath)
	os.Remove(traceBinPath)
	os.Exit(code)
}
