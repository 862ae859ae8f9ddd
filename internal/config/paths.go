package config

import (
	"errors"
	"os"
	"path/filepath"
)

// AppName names the per-tool directory under each XDG base directory
const AppName = "shco"

// ErrNoHome is returned when neither an XDG variable nor HOME is set
var ErrNoHome = errors.New("HOME is not set")

// Paths holds the base directories the tool reads from and writes to
type Paths struct {
	ConfigDir string
	CacheDir  string
	DataDir   string
}

type xdgDir struct {
	env      string
	fallback string
}

var (
	xdgConfig = xdgDir{env: "XDG_CONFIG_HOME", fallback: ".config"}
	xdgCache  = xdgDir{env: "XDG_CACHE_HOME", fallback: ".cache"}
	xdgData   = xdgDir{env: "XDG_DATA_HOME", fallback: filepath.Join(".local", "share")}
)

// ResolvePaths resolves the config, cache and data directories following the
// XDG base directory conventions.
func ResolvePaths() (Paths, error) {
	var paths Paths
	var err error

	if paths.ConfigDir, err = xdgConfig.resolve(); err != nil {
		return Paths{}, err
	}
	if paths.CacheDir, err = xdgCache.resolve(); err != nil {
		return Paths{}, err
	}
	if paths.DataDir, err = xdgData.resolve(); err != nil {
		return Paths{}, err
	}

	return paths, nil
}

func (d xdgDir) resolve() (string, error) {
	if base := os.Getenv(d.env); base != "" {
		return filepath.Join(base, AppName), nil
	}

	home := os.Getenv("HOME")
	if home == "" {
		return "", ErrNoHome
	}
	return filepath.Join(home, d.fallback, AppName), nil
}

// LockFile is where the last committed configuration fingerprint is kept
func (p Paths) LockFile() string {
	return filepath.Join(p.CacheDir, "config.lock")
}

// LogFile is the diagnostics log
func (p Paths) LogFile() string {
	return filepath.Join(p.CacheDir, "events.log")
}

// StoreDir is the root of the plugin store
func (p Paths) StoreDir() string {
	return filepath.Join(p.DataDir, "plugins")
}
