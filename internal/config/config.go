package config

import (
	"fmt"
	"strings"
	"time"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Export: ExportConfig{
			Style:     "text",
			Workers:   4,
			Timezone:  "Local",
			OutputDir: "conversations",
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}

// Location resolves the export timezone. Empty and "Local" mean time.Local.
func (e ExportConfig) Location() (*time.Location, error) {
	tz := strings.TrimSpace(e.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("unknown timezone %q", tz)}
	}
	return loc, nil
}
