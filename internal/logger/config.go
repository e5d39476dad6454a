package logger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	ConsoleStream  string `yaml:"console_stream"` // "stdout" (default) or "stderr"
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
	FileCompress   bool   `yaml:"file_compress"`
}

// LoggingConfig wraps the Config for YAML parsing
type LoggingConfig struct {
	Logging *Config `yaml:"logging"`
}

// DefaultConfig returns console-only text logging at INFO.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		ConsoleStream:  "stdout",
		FileEnabled:    false,
		FilePath:       "logs/mazegen.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// LoadConfig loads logging configuration from the "logging" section of a
// YAML file and applies LOG_* environment overrides. A missing file is not
// an error. An unreadable or unparsable file is reported, and the returned
// config holds the defaults plus environment overrides.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()
	var loadErr error

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			// Decode over the defaults so omitted keys keep their values.
			wrapper := LoggingConfig{Logging: &config}
			if err := yaml.Unmarshal(data, &wrapper); err != nil {
				config = DefaultConfig()
				loadErr = fmt.Errorf("parse %s: %w", configPath, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			loadErr = fmt.Errorf("read %s: %w", configPath, err)
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Level = logLevel
	}

	if consoleEnabled := os.Getenv("LOG_CONSOLE_ENABLED"); consoleEnabled != "" {
		if enabled, err := strconv.ParseBool(consoleEnabled); err == nil {
			config.ConsoleEnabled = enabled
		}
	}

	if consoleFormat := os.Getenv("LOG_CONSOLE_FORMAT"); consoleFormat != "" {
		config.ConsoleFormat = consoleFormat
	}

	if fileEnabled := os.Getenv("LOG_FILE_ENABLED"); fileEnabled != "" {
		if enabled, err := strconv.ParseBool(fileEnabled); err == nil {
			config.FileEnabled = enabled
		}
	}

	if filePath := os.Getenv("LOG_FILE_PATH"); filePath != "" {
		config.FilePath = filePath
	}

	return config, loadErr
}
