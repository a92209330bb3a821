package ctxlog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/impactgrid/internal/ctxlog"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := ctxlog.WithLogger(context.Background(), logger)
	ctxlog.FromContext(ctx).Info("hello")
	require.Contains(t, buf.String(), "hello")
}

func TestFromContextFallsBack(t *testing.T) {
	logger := ctxlog.FromContext(context.Background())
	require.NotNil(t, logger)
}
