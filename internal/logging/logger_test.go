package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entries decodes the JSON lines written to buf.
func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestNewLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "bigcalc").Info("started", String("mode", "batch"), Int("workers", 4))

	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, "started", got[0]["message"])
	assert.Equal(t, "bigcalc", got[0]["component"])
	assert.Equal(t, "batch", got[0]["mode"])
	assert.EqualValues(t, 4, got[0]["workers"])
	assert.Contains(t, got[0], "time")
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "test")

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e", errors.New("boom"))

	got := entries(t, &buf)
	require.Len(t, got, 4)
	for i, want := range []string{"debug", "info", "warn", "error"} {
		assert.Equal(t, want, got[i]["level"])
	}
	assert.Equal(t, "boom", got[3]["error"])
}

func TestErrorWithNilErr(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "test").Error("failed", nil, Int("index", 2))

	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.NotContains(t, got[0], "error")
	assert.EqualValues(t, 2, got[0]["index"])
}

func TestNewLevelLogger(t *testing.T) {
	tests := []struct {
		level string
		want  int // entries written by Debug, Info, Warn and Error
	}{
		{"debug", 4},
		{"info", 3},
		{"WARN", 2},
		{"error", 1},
		{"disabled", 0},
		{"", 3},
		{"chatty", 3},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLevelLogger(&buf, "test", tt.level)
			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			l.Error("e", nil)
			assert.Len(t, entries(t, &buf), tt.want)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("Warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestFieldTypes(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "test").Info("fields",
		String("s", "x"),
		Int("i", -3),
		Int64("i64", 1<<40),
		Bool("b", true),
		Duration("d", 1500*time.Millisecond),
		Err(errors.New("cause")),
		Field{Key: "digits", Value: []int{1, 2}},
	)

	got := entries(t, &buf)[0]
	assert.Equal(t, "x", got["s"])
	assert.EqualValues(t, -3, got["i"])
	assert.EqualValues(t, 1<<40, got["i64"])
	assert.Equal(t, true, got["b"])
	assert.EqualValues(t, 1500, got["d"]) // zerolog writes durations in milliseconds
	assert.Equal(t, "cause", got["error"])
	assert.Equal(t, []any{1.0, 2.0}, got["digits"])
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "test").With(String("expr", "2^10")).Debug("parsed")

	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "2^10", got[0]["expr"])
}

func TestNopLoggerWritesNothing(t *testing.T) {
	var l Logger = NewNopLogger()
	l.Info("ignored")
	l.Error("ignored", errors.New("x"))
}

func TestNewZerologAdapter(t *testing.T) {
	var buf bytes.Buffer
	NewZerologAdapter(zerolog.New(&buf).Level(zerolog.WarnLevel)).Info("hidden")
	assert.Empty(t, buf.String())
}
