package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/impactgrid/internal/cli"
)

func TestParse_Valid(t *testing.T) {
	var out bytes.Buffer
	config, shouldExit, err := cli.Parse([]string{
		"-impact", "gwp",
		"-functional-unit", "per_kg",
		"-axis", "phase",
		"-set", "x=4",
		"-set", "mode=B",
		"-set", "electric=true",
		"-output", "json",
		"model.json",
	}, &out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	require.Equal(t, "model.json", config.ModelPath)
	require.Equal(t, "gwp", config.Impact)
	require.Equal(t, "per_kg", config.FunctionalUnit)
	require.Equal(t, "phase", config.Axis)
	require.Equal(t, "json", config.Output)
	require.Equal(t, map[string]any{
		"x":        4.0,
		"mode":     "B",
		"electric": true,
	}, config.Overrides)
}

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	_, shouldExit, err := cli.Parse(nil, &out)
	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_Help(t *testing.T) {
	var out bytes.Buffer
	_, shouldExit, err := cli.Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	require.True(t, shouldExit)
}

func TestParse_Invalid(t *testing.T) {
	cases := [][]string{
		{"-impact", "gwp", "model.json"},                                      // missing functional unit
		{"-functional-unit", "per_kg", "model.json"},                          // missing impact
		{"-impact", "g", "-functional-unit", "f", "-output", "xml", "m.json"}, // bad output
		{"-impact", "g", "-functional-unit", "f", "-log-level", "loud", "m.json"},
		{"-impact", "g", "-functional-unit", "f", "-set", "noequals", "m.json"},
	}
	for _, args := range cases {
		var out bytes.Buffer
		_, _, err := cli.Parse(args, &out)
		var exitErr *cli.ExitError
		require.ErrorAs(t, err, &exitErr, "%v", args)
		require.Equal(t, 2, exitErr.Code)
	}
}
