package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// commandContext builds the exec command. Tests swap it out to fake
// tool invocations without spawning processes.
var commandContext = exec.CommandContext

// Find resolves a tool binary.
//
// A name containing a path separator is taken literally and must
// exist. A bare name is resolved through PATH. Either way a failure
// here is a setup error reported before any conversion starts.
func Find(bin string) (string, error) {
	if strings.ContainsRune(bin, '/') || strings.ContainsRune(bin, os.PathSeparator) {
		if _, err := os.Stat(bin); err != nil {
			return "", fmt.Errorf("tool %q not found: %w", bin, err)
		}
		return bin, nil
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("tool %q not found in PATH: %w", bin, err)
	}
	return path, nil
}

// Runner executes external media tools. The conversion pipeline only
// ever talks to ffmpeg and ffprobe through this interface, which is
// what lets tests assert on argument lists instead of spawning
// binaries.
type Runner interface {
	// Run executes a tool, optionally feeding stdin. A non-zero exit
	// surfaces the tool's stderr text as the error.
	Run(ctx context.Context, bin string, args []string, stdin []byte) error

	// Output executes a tool and returns its stdout.
	Output(ctx context.Context, bin string, args []string) ([]byte, error)
}

// NewRunner returns the Runner backed by real process execution.
func NewRunner() Runner {
	return execRunner{}
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, bin string, args []string, stdin []byte) error {
	cmd := commandContext(ctx, bin, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return toolError(bin, stderr.Bytes(), err)
	}
	return nil
}

func (execRunner) Output(ctx context.Context, bin string, args []string) ([]byte, error) {
	cmd := commandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, toolError(bin, stderr.Bytes(), err)
	}
	return stdout.Bytes(), nil
}

// toolError prefers the tool's own stderr text over the exit status,
// since ffmpeg puts the reason there.
func toolError(bin string, stderr []byte, err error) error {
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", filepath.Base(bin), err)
}
