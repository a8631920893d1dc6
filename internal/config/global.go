// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
)

// GlobalConfigDir returns $XDG_CONFIG_HOME/plaintes, or ~/.config/plaintes.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "plaintes")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "plaintes")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// LoadGlobal loads the global config file. A missing file yields a zero
// Config.
func LoadGlobal() (*Config, error) {
	return loadFile(GlobalConfigPath())
}

// Resolve loads the global config and the one in dir, merges them, applies
// the environment and the stored token, and validates the result.
func Resolve(dir string) (*Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return nil, err
	}
	local, err := Load(dir)
	if err != nil {
		return nil, err
	}
	cfg := Merge(global, local)
	ApplyEnv(cfg, os.Getenv)
	if cfg.Token == "" {
		tok, err := LoadToken()
		if err != nil {
			return nil, err
		}
		cfg.Token = tok
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
