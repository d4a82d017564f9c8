package config

const (
	defaultConfigPath    = "~/.config/voxtract/config.toml"
	projectConfigName    = "voxtract.toml"
	defaultInputDir      = "audios"
	defaultOutputDir     = "features"
	defaultLogDir        = "~/.local/share/voxtract/logs"
	defaultStateDir      = "~/.local/share/voxtract"
	defaultHistoryFile   = "history.db"
	defaultExtension     = ".wav"
	defaultLedgerName    = "failed_files.log"
	defaultEngineCmd     = "uv"
	defaultFFmpegBinary  = "ffmpeg"
	defaultSeparator     = ";"
	defaultDecimal       = ","
	defaultOutputFolder  = "segmented"
	defaultNotifyTimeout = 10
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"

	// EnvEngineCommand replaces engine.command and engine.args when set. The
	// value is split with shell quoting rules.
	EnvEngineCommand = "VOXTRACT_ENGINE_COMMAND"
)

// DefaultFamilies lists every feature family in extraction order.
var DefaultFamilies = []string{"prosody", "articulation", "phonation", "glottal"}

func defaultEngineArgs() []string {
	return []string{"run", "--quiet", "--with", "disvoice", "python"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		Extraction: Extraction{
			Static:     false,
			Families:   append([]string(nil), DefaultFamilies...),
			Extension:  defaultExtension,
			LedgerName: defaultLedgerName,
		},
		Engine: Engine{
			Command:     defaultEngineCmd,
			Args:        defaultEngineArgs(),
			CheckHeader: true,
		},
		Segment: Segment{
			FFmpegBinary: defaultFFmpegBinary,
			Separator:    defaultSeparator,
			Decimal:      defaultDecimal,
			OutputFolder: defaultOutputFolder,
		},
		History: History{
			Enabled: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
