package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// TimeFormat matches the timestamps of the events log
const TimeFormat = "2006-01-02T15:04:05.000"

// Options configures the application logger
type Options struct {
	// Path is the log file, created with its parent directory when missing
	Path string

	// Level is an hclog level name; unknown names fall back to info
	Level string

	// Debug mirrors every record to Stderr at debug level or lower
	Debug bool

	// Stderr receives mirrored records; defaults to os.Stderr
	Stderr io.Writer
}

// New creates the logger every component derives its named logger from.
// The returned closer releases the log file. Diagnostics never go to
// stdout, which the calling shell evaluates.
func New(opts Options) (hclog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := ParseLevel(opts.Level)
	var output io.Writer = file
	if opts.Debug {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		output = io.MultiWriter(file, stderr)
		if level > hclog.Debug {
			level = hclog.Debug
		}
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:            "shco",
		Level:           level,
		Output:          output,
		TimeFormat:      TimeFormat,
		IncludeLocation: true,
		Color:           hclog.ColorOff,
	})

	return logger, file, nil
}

// ParseLevel converts a level name, defaulting to info
func ParseLevel(name string) hclog.Level {
	level := hclog.LevelFromString(name)
	if level == hclog.NoLevel {
		return hclog.Info
	}
	return level
}
