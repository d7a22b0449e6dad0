// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Sensors  SensorConfig   `toml:"sensors"`
	Analysis AnalysisConfig `toml:"analysis"`
}

// SensorConfig maps per-channel sampling intervals in milliseconds.
type SensorConfig struct {
	TempRateMs  *int64 `toml:"temp-rate-ms"`
	HumRateMs   *int64 `toml:"hum-rate-ms"`
	PressRateMs *int64 `toml:"press-rate-ms"`
}

// AnalysisConfig maps analysis-related settings.
type AnalysisConfig struct {
	Window *int  `toml:"window"`
	Bins   *int  `toml:"bins"`
	Record *bool `toml:"record"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
