package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/impactgrid/internal/app"
)

// ExitError is an error carrying a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// setFlags collects repeatable -set name=value overrides.
type setFlags []string

func (s *setFlags) String() string {
	return strings.Join(*s, ",")
}

func (s *setFlags) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Parse processes command-line arguments into an app.Config. The second
// return value is true when the program should exit cleanly without
// running (help requested, or no model path given).
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("impactgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
impactgrid - evaluate an exported environmental-impact model.

Usage:
  impactgrid [options] MODEL_PATH

Arguments:
  MODEL_PATH
    Path to a serialized model JSON file.

Options:
`)
		flagSet.PrintDefaults()
	}

	impactFlag := flagSet.String("impact", "", "Impact key to evaluate.")
	fuFlag := flagSet.String("functional-unit", "", "Functional unit to normalize by.")
	axisFlag := flagSet.String("axis", "", "Breakdown axis. Defaults to the unbroken total.")
	paramsFileFlag := flagSet.String("params", "", "Path to a YAML file of parameter overrides.")
	outputFlag := flagSet.String("output", "text", "Result format. Options: 'text' or 'json'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")
	var sets setFlags
	flagSet.Var(&sets, "set", "Parameter override as name=value. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	modelPath := flagSet.Arg(0)

	outputFormat := strings.ToLower(*outputFlag)
	if outputFormat != "text" && outputFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid output: must be 'text' or 'json'"}
	}
	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	overrides, err := parseOverrides(sets)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	config, err := app.NewConfig(app.Config{
		ModelPath:      modelPath,
		Impact:         *impactFlag,
		FunctionalUnit: *fuFlag,
		Axis:           *axisFlag,
		ParamsFile:     *paramsFileFlag,
		Overrides:      overrides,
		Output:         outputFormat,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, false, nil
}

// parseOverrides turns -set name=value pairs into typed values: booleans
// and numbers are recognized, anything else stays a string (enum value).
func parseOverrides(sets []string) (map[string]any, error) {
	if len(sets) == 0 {
		return nil, nil
	}
	overrides := make(map[string]any, len(sets))
	for _, pair := range sets {
		name, raw, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid -set %q: expected name=value", pair)
		}
		overrides[name] = parseValue(raw)
	}
	return overrides, nil
}

func parseValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
