// Package config loads the optional ferry configuration file. Everything
// in it is a default; command-line flags always win.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config mirrors the TOML file's sections.
type Config struct {
	Defaults Defaults `toml:"defaults"`
	Theme    Theme    `toml:"theme"`
}

// Defaults holds persistent flag defaults. Pointer fields distinguish
// "not set" from an explicit zero.
type Defaults struct {
	Workers       *int    `toml:"workers"`
	Recursive     *bool   `toml:"recursive"`
	PreserveAll   *bool   `toml:"preserve_all"`
	SkipEmptyDirs *bool   `toml:"skip_empty_dirs"`
	Verify        *bool   `toml:"verify"`
	UI            *string `toml:"ui"`
	BWLimit       *string `toml:"bwlimit"`
	LogFile       *string `toml:"log_file"`
}

// Theme overrides individual progress-display colors; values are
// hex strings like "#a6e3a1".
type Theme struct {
	Green  *string `toml:"green"`
	Blue   *string `toml:"blue"`
	Yellow *string `toml:"yellow"`
	Red    *string `toml:"red"`
	Teal   *string `toml:"teal"`
	Mauve  *string `toml:"mauve"`
	Muted  *string `toml:"muted"`
	Dim    *string `toml:"dim"`
	Bright *string `toml:"bright"`
}

// Path is the resolved config file location under the XDG config home.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "ferry", "config.toml")
}

// Load reads the config file. A missing file is not an error; the file is
// always optional.
func Load() (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(Path(), &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	return cfg, nil
}
