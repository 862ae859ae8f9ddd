package config

import (
	"os"
	"runtime"
	"strconv"

	plugindomain "shco.dev/cli/internal/core/domain/plugin"
)

// Settings holds runtime knobs that live outside the configuration document
// so that changing them never invalidates the fingerprint.
type Settings struct {
	LogLevel string
	Jobs     int
	Git      string
	GitHost  string
}

// DefaultSettings returns the settings used when no overrides are present
func DefaultSettings() Settings {
	return Settings{
		LogLevel: "info",
		Jobs:     runtime.NumCPU(),
		Git:      "git",
		GitHost:  plugindomain.DefaultHost,
	}
}

// LoadSettings applies SHCO_* environment overrides on top of the defaults
func LoadSettings() Settings {
	s := DefaultSettings()

	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("SHCO_LOG_LEVEL", &s.LogLevel)
	str("SHCO_GIT", &s.Git)
	str("SHCO_GIT_HOST", &s.GitHost)

	if v := os.Getenv("SHCO_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.Jobs = n
		}
	}

	return s
}
