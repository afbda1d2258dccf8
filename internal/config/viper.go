package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// NewViper builds a Config from the values registered with viper: flags,
// environment variables and the config file. Unset values keep their defaults.
// Metrics is left empty; it only applies to the chart command that sets it.
func NewViper() (*Config, error) {
	cfg := Defaults()
	setString(&cfg.ResultsDir, "results")
	setString(&cfg.OutputDir, "output")
	setString(&cfg.Format, "format")
	setString(&cfg.Workload, "workload")
	setString(&cfg.LogLevel, "log-level")
	if viper.IsSet("width") {
		cfg.Width = viper.GetFloat64("width")
	}
	if viper.IsSet("height") {
		cfg.Height = viper.GetFloat64("height")
	}
	if viper.IsSet("dpi") {
		cfg.DPI = viper.GetInt("dpi")
	}
	if viper.IsSet("compare-nodes") {
		cfg.CompareNodes = viper.GetInt("compare-nodes")
	}
	if viper.IsSet("default-threshold") {
		cfg.DefaultThreshold = viper.GetFloat64("default-threshold")
	}
	if nodes := viper.GetIntSlice("nodes"); len(nodes) > 0 {
		cfg.Nodes = nodes
	}

	var err error
	cfg.ResultsDir, err = filepath.Abs(cfg.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %v", err)
	}
	cfg.OutputDir, err = filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %v", err)
	}

	if path := viper.GetString("cue"); path != "" {
		cfg, err = NewCue(path, cfg)
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setString(dst *string, key string) {
	if v := viper.GetString(key); v != "" {
		*dst = v
	}
}
