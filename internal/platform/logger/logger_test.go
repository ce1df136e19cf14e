package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tc := range testCases {
		got, err := ParseLevel(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.wantErr, err != nil, tc.in)
	}
}

func TestNewHandlerFormats(t *testing.T) {
	t.Parallel()

	var jsonOut bytes.Buffer
	h, err := NewHandler(&jsonOut, Config{Level: "info", Format: "json"})
	require.NoError(t, err)
	slog.New(h).Info("hello", "tier", 3)
	assert.Contains(t, jsonOut.String(), `"msg":"hello"`)
	assert.Contains(t, jsonOut.String(), `"tier":3`)

	var textOut bytes.Buffer
	h, err = NewHandler(&textOut, Config{Level: "debug", Format: "text"})
	require.NoError(t, err)
	slog.New(h).Debug("visible")
	assert.Contains(t, textOut.String(), "visible")

	_, err = NewHandler(&textOut, Config{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNewHandlerRespectsLevel(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	h, err := NewHandler(&out, Config{Level: "warn"})
	require.NoError(t, err)

	l := slog.New(h)
	l.Info("dropped")
	l.Warn("kept")
	assert.NotContains(t, out.String(), "dropped")
	assert.Contains(t, out.String(), "kept")
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	l, buf := GetTestLogger(t)
	ctx := WithLogger(context.Background(), l.With("session_id", "s-1"))

	FromContext(ctx).Info("from context")
	entry := FindEntry(t, buf, "from context")
	assert.Equal(t, "s-1", entry["session_id"])

	fallback, _ := GetTestLogger(t)
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, FromContext(context.Background()))
}
