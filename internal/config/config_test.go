package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"voxtract/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "voxtract", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}

	wantState := filepath.Join(tempHome, ".local", "share", "voxtract")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if !filepath.IsAbs(cfg.Paths.InputDir) || filepath.Base(cfg.Paths.InputDir) != "audios" {
		t.Fatalf("unexpected input dir: %q", cfg.Paths.InputDir)
	}
	if filepath.Base(cfg.Paths.OutputDir) != "features" {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Extraction.Static {
		t.Fatal("expected frame-level mode by default")
	}
	if strings.Join(cfg.Extraction.Families, ",") != "prosody,articulation,phonation,glottal" {
		t.Fatalf("unexpected families: %v", cfg.Extraction.Families)
	}
	if cfg.Extraction.LedgerName != "failed_files.log" {
		t.Fatalf("unexpected ledger name: %q", cfg.Extraction.LedgerName)
	}
	if cfg.Engine.Command != "uv" || len(cfg.Engine.Args) == 0 {
		t.Fatalf("unexpected engine: %+v", cfg.Engine)
	}
	if cfg.HistoryPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
	if cfg.EngineTimeout() != 0 {
		t.Fatalf("expected no timeout, got %v", cfg.EngineTimeout())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "voxtract.toml")

	type payload struct {
		Paths struct {
			InputDir string `toml:"input_dir"`
		} `toml:"paths"`
		Extraction struct {
			Static         bool     `toml:"static"`
			Families       []string `toml:"families"`
			Extension      string   `toml:"extension"`
			TimeoutSeconds int      `toml:"timeout_seconds"`
		} `toml:"extraction"`
	}
	custom := payload{}
	custom.Paths.InputDir = filepath.Join(tempDir, "recordings")
	custom.Extraction.Static = true
	custom.Extraction.Families = []string{"Glottal", " prosody ", "glottal"}
	custom.Extraction.Extension = "WAV"
	custom.Extraction.TimeoutSeconds = 30
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.InputDir != custom.Paths.InputDir {
		t.Fatalf("input dir = %q", cfg.Paths.InputDir)
	}
	if !cfg.Extraction.Static {
		t.Fatal("expected static=true from file")
	}
	if strings.Join(cfg.Extraction.Families, ",") != "glottal,prosody" {
		t.Fatalf("families not normalized: %v", cfg.Extraction.Families)
	}
	if cfg.Extraction.Extension != ".wav" {
		t.Fatalf("extension = %q", cfg.Extraction.Extension)
	}
	if cfg.EngineTimeout() != 30*time.Second {
		t.Fatalf("timeout = %v", cfg.EngineTimeout())
	}
}

func TestLoadProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("voxtract.toml", []byte("[logging]\nformat = \"json\"\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "voxtract.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format = %q", cfg.Logging.Format)
	}
}

func TestEngineCommandEnvOverride(t *testing.T) {
	t.Setenv(config.EnvEngineCommand, "/opt/disvoice/bin/python")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Engine.Command != "/opt/disvoice/bin/python" {
		t.Fatalf("engine command = %q", cfg.Engine.Command)
	}
	if len(cfg.Engine.Args) != 0 {
		t.Fatalf("expected configured args to be replaced, got %v", cfg.Engine.Args)
	}
}

func TestEngineCommandEnvOverrideSplitsArgs(t *testing.T) {
	t.Setenv(config.EnvEngineCommand, `uv run --with "disvoice==0.1.8" python`)
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := []string{"run", "--with", "disvoice==0.1.8", "python"}
	if cfg.Engine.Command != "uv" || strings.Join(cfg.Engine.Args, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected engine %+v", cfg.Engine)
	}
}

func TestEngineCommandEnvOverrideRejectsBadQuoting(t *testing.T) {
	t.Setenv(config.EnvEngineCommand, `python "unterminated`)
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected quoting error")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"unknown family", "[extraction]\nfamilies = [\"timbre\"]\n", "extraction.families"},
		{"ledger path", "[extraction]\nledger_name = \"logs/failed.log\"\n", "ledger_name"},
		{"separator clash", "[segment]\nseparator = \",\"\n", "must differ"},
		{"long separator", "[segment]\nseparator = \";;\"\n", "single character"},
		{"ntfy topic", "[notifications]\nntfy_topic = \"my-topic\"\n", "notifications.ntfy_topic"},
		{"bad level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"unknown key", "[paths]\nstaging_dir = \"x\"\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "voxtract.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestSampleConfigLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Segment.Separator != ";" || cfg.Segment.Decimal != "," {
		t.Fatalf("unexpected segment defaults: %+v", cfg.Segment)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled in sample")
	}
}
