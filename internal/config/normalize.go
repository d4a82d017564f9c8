package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtraction()
	if err := c.normalizeEngine(); err != nil {
		return err
	}
	if err := c.normalizeSegment(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		c.Paths.InputDir = defaultInputDir
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	fields := []struct {
		key   string
		value *string
	}{
		{"paths.input_dir", &c.Paths.InputDir},
		{"paths.output_dir", &c.Paths.OutputDir},
		{"paths.log_dir", &c.Paths.LogDir},
		{"paths.state_dir", &c.Paths.StateDir},
	}
	for _, field := range fields {
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeExtraction() {
	families := make([]string, 0, len(c.Extraction.Families))
	seen := make(map[string]struct{}, len(c.Extraction.Families))
	for _, name := range c.Extraction.Families {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		families = append(families, normalized)
	}
	if len(families) == 0 {
		families = append(families, DefaultFamilies...)
	}
	c.Extraction.Families = families

	ext := strings.ToLower(strings.TrimSpace(c.Extraction.Extension))
	if ext == "" {
		ext = defaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Extraction.Extension = ext

	c.Extraction.LedgerName = strings.TrimSpace(c.Extraction.LedgerName)
	if c.Extraction.LedgerName == "" {
		c.Extraction.LedgerName = defaultLedgerName
	}
	if c.Extraction.TimeoutSeconds < 0 {
		c.Extraction.TimeoutSeconds = 0
	}
}

func (c *Config) normalizeEngine() error {
	if value, ok := os.LookupEnv(EnvEngineCommand); ok && strings.TrimSpace(value) != "" {
		words, err := shellquote.Split(value)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvEngineCommand, err)
		}
		c.Engine.Command = words[0]
		c.Engine.Args = words[1:]
	}
	c.Engine.Command = strings.TrimSpace(c.Engine.Command)
	if c.Engine.Command == "" {
		c.Engine.Command = defaultEngineCmd
		if len(c.Engine.Args) == 0 {
			c.Engine.Args = defaultEngineArgs()
		}
	}
	args := make([]string, 0, len(c.Engine.Args))
	for _, arg := range c.Engine.Args {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			args = append(args, trimmed)
		}
	}
	c.Engine.Args = args
	return nil
}

func (c *Config) normalizeSegment() error {
	c.Segment.FFmpegBinary = strings.TrimSpace(c.Segment.FFmpegBinary)
	if c.Segment.FFmpegBinary == "" {
		c.Segment.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Segment.Separator == "" {
		c.Segment.Separator = defaultSeparator
	}
	if c.Segment.Decimal == "" {
		c.Segment.Decimal = defaultDecimal
	}
	c.Segment.OutputFolder = strings.Trim(strings.TrimSpace(c.Segment.OutputFolder), "/")
	if c.Segment.OutputFolder == "" {
		c.Segment.OutputFolder = defaultOutputFolder
	}
	var err error
	if c.Segment.BaseDir, err = expandPath(strings.TrimSpace(c.Segment.BaseDir)); err != nil {
		return fmt.Errorf("segment.base_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	var err error
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
