package disvoice

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"voxtract/internal/features"
	"voxtract/internal/services"
)

//go:embed bridge.py
var bridgeScript string

// CommandRunner executes name with args and returns captured stdout. A non-zero
// exit must be reported as *ExitError.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExitError reports a non-zero engine exit status.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("exit status %d", e.Code)
	if stderr := lastLine(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Service runs DisVoice families through the configured engine command.
type Service struct {
	cfg           Config
	commandRunner CommandRunner
}

// NewService creates a DisVoice service with the given configuration.
func NewService(cfg Config) *Service {
	if strings.TrimSpace(cfg.Command) == "" {
		cfg.Command = DefaultCommand
		if len(cfg.Args) == 0 {
			cfg.Args = DefaultArgs()
		}
	}
	return &Service{cfg: cfg, commandRunner: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	if runner == nil {
		runner = runCommand
	}
	s.commandRunner = runner
}

// Command returns the configured engine executable.
func (s *Service) Command() string {
	return s.cfg.Command
}

// Extractor binds the service to one family.
func (s *Service) Extractor(family features.Family) features.Extractor {
	return features.ExtractorFunc(func(ctx context.Context, path string, static bool) (features.Array, error) {
		return s.Extract(ctx, family, path, static)
	})
}

// Extract computes family features for the recording at path. NaN values are
// returned unchanged.
func (s *Service) Extract(ctx context.Context, family features.Family, path string, static bool) (features.Array, error) {
	if s.cfg.CheckHeader {
		if _, err := ReadWAVHeader(path); err != nil {
			return features.Array{}, services.Wrap(services.ErrDecode, family.Name, "read wav header", "", err)
		}
	}

	runCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	stdout, err := s.commandRunner(runCtx, s.cfg.Command, s.buildArgs(family, path, static)...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return features.Array{}, fmt.Errorf("%s: disvoice: %w", family.Name, ctxErr)
		}
		if runCtx.Err() != nil {
			return features.Array{}, services.Wrap(services.ErrExternalTool, family.Name, "disvoice", fmt.Sprintf("timed out after %s", s.cfg.Timeout), nil)
		}
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Code == ExitDecodeFailure {
			return features.Array{}, services.Wrap(services.ErrDecode, family.Name, "disvoice", "engine could not read audio", err)
		}
		return features.Array{}, services.Wrap(services.ErrExternalTool, family.Name, "disvoice", "", err)
	}

	arr, err := parseOutput(stdout)
	if err != nil {
		return features.Array{}, services.Wrap(services.ErrValidation, family.Name, "disvoice", "malformed engine output", err)
	}
	return arr, nil
}

// CheckEngine verifies that the engine can import DisVoice.
func (s *Service) CheckEngine(ctx context.Context) error {
	args := append(append([]string{}, s.cfg.Args...), "-c", "import disvoice")
	if _, err := s.commandRunner(ctx, s.cfg.Command, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "", "disvoice", "import check failed", err)
	}
	return nil
}

// buildArgs constructs the engine arguments for one extraction.
func (s *Service) buildArgs(family features.Family, path string, static bool) []string {
	args := make([]string, 0, len(s.cfg.Args)+5)
	args = append(args, s.cfg.Args...)
	staticFlag := "0"
	if static {
		staticFlag = "1"
	}
	return append(args, "-c", bridgeScript, family.Dir, path, staticFlag)
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.Bytes(), &ExitError{Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
