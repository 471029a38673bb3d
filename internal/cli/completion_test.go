package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{"complete -F _bigcalc_completions bigcalc", "--max-digits", `compgen -W "debug info warn error"`, "--batch|--config"}},
		{"zsh", []string{"#compdef bigcalc", "'(-q --quiet)'{-q,--quiet}'[Quiet mode for scripts]'", "'--session[REPL session file]:file:_files'"}},
		{"fish", []string{"complete -c bigcalc -f", "# Interactive modes", "complete -c bigcalc -l tui -d 'Start the terminal calculator'", "complete -c bigcalc -l metrics-addr -d 'Serve Prometheus metrics on this address' -x"}},
		{"powershell", []string{"Register-ArgumentCompleter -CommandName 'bigcalc'", "'--completion' {", "@{Name = '-j'; Description = 'Concurrent batch evaluations' }"}},
		{"ps", []string{"Register-ArgumentCompleter"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, GenerateCompletion(&buf, tt.shell))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestGenerateCompletionUnsupportedShell(t *testing.T) {
	t.Parallel()
	err := GenerateCompletion(&bytes.Buffer{}, "tcsh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shell: tcsh")
}

func TestFlagRegistryIsUnique(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for _, f := range flagRegistry {
		for _, form := range flagForms(f) {
			if seen[form] {
				t.Errorf("flag %s registered twice", form)
			}
			seen[form] = true
		}
		if f.Section == "" {
			t.Errorf("flag %s has no section", flagKey(f))
		}
	}
}

func TestFishSectionsFollowRegistryOrder(t *testing.T) {
	t.Parallel()
	sections := fishSections()
	require.NotEmpty(t, sections)
	assert.Equal(t, "Help and version", sections[0])
	assert.Equal(t, "Completion", sections[len(sections)-1])
	assert.False(t, strings.Contains(strings.Join(sections, ","), ",,"))
}
