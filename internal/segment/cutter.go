package segment

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"voxtract/internal/services"
)

// CommandRunner executes an external command and returns its stderr.
type CommandRunner func(ctx context.Context, name string, args ...string) (stderr []byte, err error)

// CutError reports a failed ffmpeg invocation.
type CutError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CutError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ffmpeg cut: %v", e.Err)
	}
	return fmt.Sprintf("ffmpeg cut: %v: %s", e.Err, lastLine(e.Stderr))
}

func (e *CutError) Unwrap() []error { return []error{services.ErrExternalTool, e.Err} }

// Cutter stream-copies a time window out of a recording with ffmpeg.
type Cutter struct {
	binary string
	run    CommandRunner
}

// CutterOption customizes a Cutter.
type CutterOption func(*Cutter)

// WithCommandRunner overrides command execution, primarily for tests.
func WithCommandRunner(runner CommandRunner) CutterOption {
	return func(c *Cutter) {
		if runner != nil {
			c.run = runner
		}
	}
}

// NewCutter constructs a Cutter for the given ffmpeg binary.
func NewCutter(binary string, opts ...CutterOption) *Cutter {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	c := &Cutter{binary: binary, run: runCommand}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Args returns the ffmpeg arguments for one cut.
func (c *Cutter) Args(input, output string, start, duration float64) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-i", input,
		"-acodec", "copy",
		"-y", output,
	}
}

// CommandLine renders the cut as a shell-quoted command for logs.
func (c *Cutter) CommandLine(input, output string, start, duration float64) string {
	return shellquote.Join(append([]string{c.binary}, c.Args(input, output, start, duration)...)...)
}

// Cut writes output from input, overwriting any existing file.
func (c *Cutter) Cut(ctx context.Context, input, output string, start, duration float64) error {
	stderr, err := c.run(ctx, c.binary, c.Args(input, output, start, duration)...)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &CutError{
			Command: c.CommandLine(input, output, start, duration),
			Stderr:  strings.TrimSpace(string(stderr)),
			Err:     err,
		}
	}
	return nil
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

func lastLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.LastIndex(text, "\n"); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return text
}
