package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const configFileName = ".brewpub.toml"

// Config holds per-user defaults loaded from ~/.brewpub.toml. Every field is
// optional; command-line flags always take precedence over file values.
type Config struct {
	Token    string `toml:"token"`
	Owner    string `toml:"owner"`
	TapRepo  string `toml:"tap_repo"`
	Homepage string `toml:"homepage"`
}

// DefaultConfigPath returns the path of the user-level config file.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// LoadConfig reads a TOML config file. A missing file is not an error and
// yields an empty config.
func LoadConfig(path string) (*Config, error) {
	config := new(Config)
	exists, err := IsFileExists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return config, nil
	}
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, errors.Wrapf(err, "failed parsing config file '%s'", path)
	}
	return config, nil
}
