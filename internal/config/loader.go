package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, "dev" enables the working directory file
	OverridePath string
}

// NewLoader creates a new Loader.
func NewLoader(version, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath}
}

// Load reads the first configuration file found, or returns the defaults.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
// An override path is returned even when it does not exist, so Load reports it.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		return l.OverridePath
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".localboard.yaml")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		p := filepath.Join(home, ".config", "localboard", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
