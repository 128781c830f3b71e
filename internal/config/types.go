package config

// Config is the root configuration for chatexport.
type Config struct {
	Archive ArchiveConfig `yaml:"archive,omitempty"`
	Export  ExportConfig  `yaml:"export,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// ArchiveConfig locates the SQLite record archive.
type ArchiveConfig struct {
	Path string `yaml:"path,omitempty"` // empty means <base>/archive.db; ${VAR} references are expanded
}

// ExportConfig holds the defaults for the export command. Flags override them.
type ExportConfig struct {
	Style     string `yaml:"style,omitempty"`     // "text" | "markdown"
	Recent    bool   `yaml:"recent,omitempty"`    // newest messages first
	Limit     int    `yaml:"limit,omitempty"`     // 0 exports every message
	Workers   int    `yaml:"workers,omitempty"`   // conversations rendered in parallel by export --all
	Timezone  string `yaml:"timezone,omitempty"`  // IANA name or "Local"; drives day separators and clock times
	OutputDir string `yaml:"outputDir,omitempty"` // where export files are written
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "compact" | "json"
}
