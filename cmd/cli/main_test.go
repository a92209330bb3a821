package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	modelDoc := `{
	  "params": {"x": {"type": "float", "default": 2}},
	  "expressions": {"total": {"gwp": {"params": ["x"], "expr": "x * 3"}}},
	  "functional_units": {"per_unit": {"quantity": {"params": [], "expr": "1"}, "unit": null}},
	  "impacts": {"gwp": {"name": "climate change", "unit": "kg CO2 eq"}}
	}`
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(modelDoc), 0o600))

	out := &bytes.Buffer{}
	errW := &bytes.Buffer{}
	err := run(out, errW, []string{
		"-impact", "gwp",
		"-functional-unit", "per_unit",
		"-set", "x=4",
		path,
	})
	require.NoError(t, err)
	require.Equal(t, "12 kg CO2 eq\n", out.String())
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	errW := &bytes.Buffer{}
	err := run(out, errW, []string{"-h"})
	require.NoError(t, err, "help should exit cleanly")
	require.Contains(t, errW.String(), "Usage:")
}

func TestRun_BadModelFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	out := &bytes.Buffer{}
	errW := &bytes.Buffer{}
	err := run(out, errW, []string{
		"-impact", "gwp",
		"-functional-unit", "per_unit",
		path,
	})
	require.Error(t, err)
}
