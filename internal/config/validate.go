package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// maxWorkers caps export.workers; exports are CPU bound.
const maxWorkers = 64

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	// Export validation
	validStyles := []string{"text", "markdown"}
	if cfg.Export.Style != "" && !slices.Contains(validStyles, cfg.Export.Style) {
		issues = append(issues, ValidationIssue{
			Path:    "export.style",
			Message: fmt.Sprintf("must be one of %v, got %q", validStyles, cfg.Export.Style),
		})
	}

	if cfg.Export.Limit < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "export.limit",
			Message: fmt.Sprintf("must be 0 or positive, got %d", cfg.Export.Limit),
		})
	}

	if cfg.Export.Workers < 1 || cfg.Export.Workers > maxWorkers {
		issues = append(issues, ValidationIssue{
			Path:    "export.workers",
			Message: fmt.Sprintf("must be 1-%d, got %d", maxWorkers, cfg.Export.Workers),
		})
	}

	if _, err := cfg.Export.Location(); err != nil {
		issues = append(issues, ValidationIssue{
			Path:    "export.timezone",
			Message: fmt.Sprintf("unknown timezone %q", cfg.Export.Timezone),
		})
	}

	// Logging validation
	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "compact", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	return issues
}
