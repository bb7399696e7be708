//go:build basic || database

// Package integration contains integration tests for perflog.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedPerflogPath holds the path to a shared perflog binary built once for all tests.
	sharedPerflogPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// sampleLog is a manager log with a preamble line before the header.
const sampleLog = `manager started
# timestamp tasks_dispatched time_scheduling tasks_done workers_connected workers_idle workers_busy
100 0 0 0 1 1 0
200 2 10 0 2 0 2
300 2 12 1 2 1 1
400 5 42 3 3 0 3
500 6 142 6 3 3 0
`

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getPerflogBinary returns the path to the perflog binary, building it once if needed.
func getPerflogBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "perflog-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		perflogPath := filepath.Join(tempDir, "perflog")
		buildCmd := exec.Command("go", "build", "-o", perflogPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build perflog: %v", err))
		}

		sharedPerflogPath = perflogPath
	})

	return sharedPerflogPath
}

// writeSampleLog writes sampleLog into a fresh directory and returns it.
func writeSampleLog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "performance"), []byte(sampleLog), 0o644))
	return dir
}

// runPerflog runs the binary from dir with HOME pointed at dir, so the default
// history database never touches the real home directory.
func runPerflog(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getPerflogBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+dir)
	cmd.Env = append(cmd.Env, env...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			t.Logf("Command failed: %s\nStderr: %s", cmd.String(), string(exitErr.Stderr))
		}
	}
	return string(output), err
}
