package app

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"long", []string{"--version"}, true},
		{"single dash", []string{"-version"}, true},
		{"short", []string{"-q", "-V"}, true},
		{"absent", []string{"1+1"}, false},
		{"after terminator", []string{"--", "--version"}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasVersionFlag(tt.args))
		})
	}
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = oldVersion, oldCommit, oldDate })
	Version, Commit, BuildDate = "1.2.3", "abc123", "2026-01-02"

	var buf bytes.Buffer
	PrintVersion(&buf)

	out := buf.String()
	assert.Contains(t, out, "bigcalc 1.2.3")
	assert.Contains(t, out, "commit:  abc123")
	assert.Contains(t, out, "built:   2026-01-02")
	assert.Contains(t, out, runtime.Version())
}
