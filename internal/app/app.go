package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vk/impactgrid/internal/ctxlog"
	"github.com/vk/impactgrid/internal/model"
	"github.com/vk/impactgrid/internal/symexpr"
)

// App loads a serialized model and evaluates one impact against it.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp constructs the application with an isolated logger. Results go
// to outW; logs go to logW.
func NewApp(outW, logW io.Writer, config *Config) *App {
	return &App{
		outW:   outW,
		logger: newLogger(config.LogLevel, config.LogFormat, logW),
		config: config,
	}
}

// Run performs the evaluation and writes the result.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(a.config.ModelPath)
	if err != nil {
		return fmt.Errorf("reading model file: %w", err)
	}

	m, err := model.Decode(data, symexpr.NewHCL())
	if err != nil {
		return err
	}
	logger.Debug("model loaded",
		"axes", len(m.Axes()),
		"impacts", len(m.ImpactKeys()),
		"params", m.Params().Len(),
	)

	overrides, err := a.loadOverrides()
	if err != nil {
		return err
	}

	value, unit, err := m.Evaluate(a.config.Impact, a.config.FunctionalUnit, a.config.Axis, overrides)
	if err != nil {
		return err
	}
	return a.printResult(value.Any(), unit)
}

// loadOverrides merges the YAML params file (if any) with the -set
// overrides, the latter winning.
func (a *App) loadOverrides() (map[string]any, error) {
	overrides := make(map[string]any)
	if a.config.ParamsFile != "" {
		data, err := os.ReadFile(a.config.ParamsFile)
		if err != nil {
			return nil, fmt.Errorf("reading params file: %w", err)
		}
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return nil, fmt.Errorf("parsing params file: %w", err)
		}
	}
	for name, v := range a.config.Overrides {
		overrides[name] = v
	}
	return overrides, nil
}

func (a *App) printResult(value any, unit string) error {
	if a.config.Output == "json" {
		out := map[string]any{"value": value, "unit": unit}
		enc := json.NewEncoder(a.outW)
		return enc.Encode(out)
	}

	switch v := value.(type) {
	case map[string]float64:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(a.outW, "%s: %g %s\n", k, v[k], unit)
		}
	default:
		fmt.Fprintf(a.outW, "%g %s\n", value, unit)
	}
	return nil
}
