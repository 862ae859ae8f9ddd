package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	plugindomain "shco.dev/cli/internal/core/domain/plugin"
)

// ErrConfigUnavailable means there is no usable configuration document.
// Callers treat it as "nothing to do", never as a failure.
var ErrConfigUnavailable = errors.New("configuration unavailable")

// FileNames lists the accepted configuration documents in lookup order
var FileNames = []string{"rc.json", "rc.yaml", "rc.yml"}

// Config is the parsed configuration document
type Config struct {
	Plugins []plugindomain.Source `json:"plugins" yaml:"plugins"`
}

// Document is a configuration file as read from disk. Raw is what gets
// fingerprinted; Parse yields the structure that gets reconciled.
type Document struct {
	Path string
	Raw  []byte
}

// Read returns the first configuration document found in dir
func Read(dir string) (*Document, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)

		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%w: %w", ErrConfigUnavailable, err)
		}

		return &Document{Path: path, Raw: data}, nil
	}

	return nil, fmt.Errorf("%w: no %s in %s", ErrConfigUnavailable, strings.Join(FileNames, ", "), dir)
}

// Load reads and parses the configuration document in dir
func Load(dir string) (*Document, *Config, error) {
	doc, err := Read(dir)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := doc.Parse()
	if err != nil {
		return doc, nil, err
	}
	return doc, cfg, nil
}

// Parse decodes the document according to its file extension. A malformed
// document is reported as unavailable.
func (d *Document) Parse() (*Config, error) {
	cfg := &Config{}

	var err error
	switch filepath.Ext(d.Path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(d.Raw, cfg)
	default:
		err = json.Unmarshal(d.Raw, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrConfigUnavailable, d.Path, err)
	}

	return cfg, nil
}
