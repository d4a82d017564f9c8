package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"voxtract/internal/features"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateSegment(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return errors.New("paths.input_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateExtraction() error {
	if _, err := features.Select(c.Extraction.Families); err != nil {
		return fmt.Errorf("extraction.families: %w", err)
	}
	if c.Extraction.TimeoutSeconds < 0 {
		return errors.New("extraction.timeout_seconds must be >= 0")
	}
	if strings.ContainsAny(c.Extraction.LedgerName, `/\`) {
		return errors.New("extraction.ledger_name must be a file name, not a path")
	}
	return nil
}

func (c *Config) validateEngine() error {
	if strings.TrimSpace(c.Engine.Command) == "" {
		return fmt.Errorf("engine.command must be set (or export %s)", EnvEngineCommand)
	}
	return nil
}

func (c *Config) validateSegment() error {
	if utf8.RuneCountInString(c.Segment.Separator) != 1 {
		return errors.New("segment.separator must be a single character")
	}
	if utf8.RuneCountInString(c.Segment.Decimal) != 1 {
		return errors.New("segment.decimal must be a single character")
	}
	if c.Segment.Separator == c.Segment.Decimal {
		return errors.New("segment.separator and segment.decimal must differ")
	}
	if strings.Contains(c.Segment.OutputFolder, "/") {
		return errors.New("segment.output_folder must be a single directory name")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	parsed, err := url.Parse(topic)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be an http(s) URL, got %q", topic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
