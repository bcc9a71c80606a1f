// Package config loads exporter configuration from an optional YAML file,
// a .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the full exporter configuration.
type Config struct {
	// Token authenticates against the Notion API. Usually supplied through
	// the NOTION_TOKEN environment variable rather than the file.
	Token    string       `yaml:"token"`
	LogLevel string       `yaml:"log_level"`
	Export   ExportConfig `yaml:"export"`
}

// ExportConfig holds output settings.
type ExportConfig struct {
	OutputDir      string `yaml:"output_dir"`
	DownloadImages bool   `yaml:"download_images"`
	Recursive      bool   `yaml:"recursive"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Export: ExportConfig{
			OutputDir:      "output",
			DownloadImages: true,
			Recursive:      true,
		},
	}
}

// Load builds the configuration. A .env file in the working directory is
// applied first when present. path names an optional YAML file; environment
// references like ${NOTION_TOKEN} are expanded before parsing, and keys the
// file omits keep their defaults. An empty path skips the file. NOTION_TOKEN
// fills the token when the file leaves it empty.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if cfg.Token == "" {
		cfg.Token = os.Getenv("NOTION_TOKEN")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks structural constraints. Token presence is deliberately not
// checked here; the access layer verifies credentials before the first API
// call.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.Required, validation.By(validLogLevel)),
	); err != nil {
		return err
	}
	return c.Export.Validate()
}

// Validate validates the export settings.
func (c *ExportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OutputDir, validation.Required),
	)
}

func validLogLevel(value interface{}) error {
	level, _ := value.(string)
	if _, err := logrus.ParseLevel(level); err != nil {
		return errors.New("must be a valid log level")
	}
	return nil
}
