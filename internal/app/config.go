package app

import "errors"

// Config holds everything one evaluation run needs.
type Config struct {
	ModelPath      string
	Impact         string
	FunctionalUnit string
	Axis           string

	// ParamsFile optionally names a YAML file of parameter overrides;
	// Overrides (from -set flags) are applied on top of it.
	ParamsFile string
	Overrides  map[string]any

	Output    string // "text" or "json"
	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("ModelPath is a required configuration field and cannot be empty")
	}
	if cfg.Impact == "" {
		return nil, errors.New("an impact key is required (-impact)")
	}
	if cfg.FunctionalUnit == "" {
		return nil, errors.New("a functional unit is required (-functional-unit)")
	}
	return &cfg, nil
}
