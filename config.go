package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"crewmap/internal/store"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeySaveDirectory = "save_directory"
	cfgKeyStartMenu     = "start_menu"
	cfgKeyConfirmations = "confirmations"
	cfgKeyDataDir       = "data_dir"
	cfgKeyBackend       = "backend"
	cfgKeyCellWidth     = "cell_width"
	cfgKeyCellHeight    = "cell_height"
	cfgKeyQuotaBytes    = "quota_bytes"
	cfgKeyLogLevel      = "log_level"

	// browsers give localStorage about five megabytes per origin
	defaultQuotaBytes = 5 << 20
)

type Config struct {
	SaveDirectory string
	StartMenu     bool
	Confirmations bool
	DataDir       string
	Backend       string
	CellWidth     int
	CellHeight    int
	QuotaBytes    int
	LogLevel      string
}

func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "crewmap")
	}
	return ".crewmap"
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".crewmap-data"
	}
	return filepath.Join(home, ".local", "share", "crewmap")
}

// loadConfig reads config.yaml from configDir. A missing file leaves the
// defaults in place; CREWMAP_* environment variables override the file.
func loadConfig(configDir string) (*Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeySaveDirectory, "")
	v.SetDefault(cfgKeyStartMenu, true)
	v.SetDefault(cfgKeyConfirmations, true)
	v.SetDefault(cfgKeyDataDir, defaultDataDir())
	v.SetDefault(cfgKeyBackend, store.BackendBadger)
	v.SetDefault(cfgKeyCellWidth, defaultCellWidth)
	v.SetDefault(cfgKeyCellHeight, defaultCellHeight)
	v.SetDefault(cfgKeyQuotaBytes, defaultQuotaBytes)
	v.SetDefault(cfgKeyLogLevel, "info")

	v.SetEnvPrefix("crewmap")
	v.AutomaticEnv()

	if configDir != "" {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(configDir)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	config := &Config{
		SaveDirectory: expandPath(v.GetString(cfgKeySaveDirectory)),
		StartMenu:     v.GetBool(cfgKeyStartMenu),
		Confirmations: v.GetBool(cfgKeyConfirmations),
		DataDir:       expandPath(v.GetString(cfgKeyDataDir)),
		Backend:       strings.ToLower(v.GetString(cfgKeyBackend)),
		CellWidth:     v.GetInt(cfgKeyCellWidth),
		CellHeight:    v.GetInt(cfgKeyCellHeight),
		QuotaBytes:    v.GetInt(cfgKeyQuotaBytes),
		LogLevel:      v.GetString(cfgKeyLogLevel),
	}
	if config.CellWidth < 1 {
		config.CellWidth = defaultCellWidth
	}
	if config.CellHeight < 1 {
		config.CellHeight = defaultCellHeight
	}
	return config, nil
}

func expandPath(value string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func (c *Config) metrics() cellMetrics {
	return cellMetrics{w: c.CellWidth, h: c.CellHeight}
}
