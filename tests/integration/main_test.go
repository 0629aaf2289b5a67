package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TestMain builds the pulse binary once for the whole package.
func TestMain(m *testing.M) {
	root, err := FindProjectRoot()
	if err != nil {
		buildErr = err
		os.Exit(m.Run())
	}

	binDir, err := os.MkdirTemp("", "pulse-bin")
	if err != nil {
		buildErr = err
		os.Exit(m.Run())
	}
	defer os.RemoveAll(binDir)

	bin := filepath.Join(binDir, "pulse")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/pulse")
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		buildErr = &BuildError{Err: err, Output: string(out)}
	} else {
		pulseBin = bin
	}

	os.Exit(m.Run())
}

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}
