// Package integration provides CLI integration tests for pulse.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// pulseBin is the path to the built pulse binary.
	pulseBin string
	// buildErr captures any build error.
	buildErr error
)

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// TestEnv provides an isolated test environment with its own config and
// data directory and a fixed caller identity.
type TestEnv struct {
	t        *testing.T
	TempDir  string
	Config   string
	DataDir  string
	Identity string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build pulse: %v", buildErr)
	}
	if pulseBin == "" {
		t.Fatal("pulse binary not built (pulseBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "backend: sqlite\ndata_dir: " + dataDir + "\nidentity: node-test\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:        t,
		TempDir:  tempDir,
		Config:   configDir,
		DataDir:  dataDir,
		Identity: "node-test",
	}
}

// CmdResult holds the result of a pulse command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunPulse executes the pulse CLI with the given arguments.
func (e *TestEnv) RunPulse(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(pulseBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run pulse: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunPulse executes the pulse CLI and fails the test on a non-zero exit.
func (e *TestEnv) MustRunPulse(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunPulse(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("pulse %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// Observation mirrors the CLI's JSON output shape.
type Observation struct {
	Owner      string `json:"owner"`
	Timestamp  int64  `json:"timestamp"`
	Kind       string `json:"kind"`
	Value      int64  `json:"value"`
	Annotation string `json:"annotation"`
}
