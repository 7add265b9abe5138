package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNewFiltersByLevelAndTagsService(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Service: "products_api", Writer: &buf})

	l.Info("skipped")
	require.Zero(t, buf.Len())

	l.Warn("kept", "status", 404)
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "kept", line["msg"])
	require.Equal(t, "products_api", line["service"])
	require.EqualValues(t, 404, line["status"])
}

func TestContextRoundTrip(t *testing.T) {
	l := New(Options{Writer: &bytes.Buffer{}})
	ctx := WithLogger(context.Background(), l)
	require.Same(t, l, FromContext(ctx))
	require.Same(t, slog.Default(), FromContext(context.Background()))
}
