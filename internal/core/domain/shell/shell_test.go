package shelldomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		path     string
		expected Kind
		wantErr  bool
	}{
		{path: "/bin/zsh", expected: Zsh},
		{path: "/usr/local/bin/bash", expected: Bash},
		{path: "zsh", expected: Zsh},
		{path: "-zsh", expected: Zsh},
		{path: "/usr/bin/fish", wantErr: true},
		{path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			kind, err := Parse(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedShell)
				assert.False(t, kind.Valid())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
			assert.True(t, kind.Valid())
		})
	}
}

func TestKindName(t *testing.T) {
	assert.Equal(t, "zsh", Zsh.Name())
	assert.Equal(t, "bash", Bash.String())
	assert.Equal(t, "unknown", Kind(0).Name())
}

func TestInitScript(t *testing.T) {
	for _, kind := range []Kind{Zsh, Bash} {
		t.Run(kind.Name(), func(t *testing.T) {
			script, err := kind.InitScript("/opt/shco/bin/shco")
			require.NoError(t, err)

			assert.Contains(t, script, "_shco_load()")
			assert.Contains(t, script, `eval "$('/opt/shco/bin/shco' source --shell `+kind.Name()+`)"`)
			assert.Contains(t, script, `('/opt/shco/bin/shco' sync --shell `+kind.Name()+` >/dev/null 2>&1 &)`)
			assert.NotContains(t, script, "{{")
		})
	}
}

func TestInitScript_HooksPerShell(t *testing.T) {
	zsh, err := Zsh.InitScript("shco")
	require.NoError(t, err)
	assert.Contains(t, zsh, "TRAPWINCH()")
	assert.Contains(t, zsh, "add-zsh-hook precmd _shco_sync")

	bash, err := Bash.InitScript("shco")
	require.NoError(t, err)
	assert.Contains(t, bash, "trap '_shco_source' WINCH")
	assert.Contains(t, bash, "PROMPT_COMMAND=")
}

func TestInitScript_Unsupported(t *testing.T) {
	_, err := Kind(0).InitScript("shco")
	assert.ErrorIs(t, err, ErrUnsupportedShell)
}

func TestLoadCommand(t *testing.T) {
	assert.Equal(t, "_shco_load '/data/plugins/owner/name'", Zsh.LoadCommand("/data/plugins/owner/name"))
	assert.Equal(t, `_shco_load '/it'\''s/here'`, Bash.LoadCommand("/it's/here"))
}
