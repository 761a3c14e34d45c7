package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rhymu8354/Lurker/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/lurker"
	configFileName = "config.yaml"
)

// osUserHomeDir is replaced in tests.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/lurker.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads config.yaml from configPath on top of the defaults.
// An empty configPath selects the default directory.
func LoadConfig(configPath string) (LurkerConfig, error) {
	if configPath == "" {
		var err error
		configPath, err = GetDefaultConfigPath()
		if err != nil {
			return LurkerConfig{}, err
		}
	}
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		logging.Error("ConfigLoader", err, "Error loading config.yaml from %s", configFilePath)
		return LurkerConfig{}, &ConfigurationError{
			FilePath:  configFilePath,
			ErrorType: ErrorTypeIO,
			Message:   "unable to read configuration file",
			Err:       err,
		}
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return LurkerConfig{}, &ConfigurationError{
			FilePath:  configFilePath,
			ErrorType: ErrorTypeParse,
			Message:   "malformed configuration file",
			Err:       err,
		}
	}
	logging.Debug("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}
