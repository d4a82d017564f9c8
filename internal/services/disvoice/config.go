package disvoice

import "time"

// Config captures runtime settings for the DisVoice engine.
type Config struct {
	// Command is the executable that runs Python (uv, python3, a venv interpreter).
	Command string
	// Args precede the bridge invocation, e.g. ["run", "--with", "disvoice", "python"].
	Args []string
	// CheckHeader rejects recordings whose WAV header cannot be parsed.
	CheckHeader bool
	// Timeout bounds a single extraction; zero means no limit.
	Timeout time.Duration
}

// Engine constants.
const (
	DefaultCommand = "uv"
	// ResultPrefix marks the bridge's result line on stdout.
	ResultPrefix = "VOXTRACT_RESULT "
	// ExitDecodeFailure is the bridge exit status for unreadable audio.
	ExitDecodeFailure = 3
	// ExitUnknownFamily is the bridge exit status for an unsupported family key.
	ExitUnknownFamily = 2
)

// DefaultArgs returns the uv arguments that provision DisVoice on demand.
func DefaultArgs() []string {
	return []string{"run", "--quiet", "--with", "disvoice", "python"}
}
