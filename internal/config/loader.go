package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"loginflow/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/loginflow"
	configFileName = "config.yaml"
	sessionDirName = "session"
)

var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/loginflow.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads config.yaml from configPath on top of the defaults and
// validates the result. An empty configPath means the default directory.
func LoadConfig(configPath string) (LoginflowConfig, error) {
	if configPath == "" {
		var err error
		configPath, err = GetDefaultConfigPath()
		if err != nil {
			return LoginflowConfig{}, err
		}
	}

	config := GetDefaultConfig()
	configFilePath := filepath.Join(configPath, configFileName)

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("Config", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return LoginflowConfig{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return LoginflowConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Debug("Config", "Loaded configuration from %s", configFilePath)
	}

	fillDefaults(&config)
	if config.Session.StorageDir == "" {
		config.Session.StorageDir = filepath.Join(configPath, sessionDirName)
	}

	if err := Validate(config); err != nil {
		return LoginflowConfig{}, fmt.Errorf("invalid config %s: %w", configFilePath, err)
	}
	return config, nil
}
