package shelldomain

import (
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

// ErrUnsupportedShell is returned for shells without an init template
var ErrUnsupportedShell = errors.New("unsupported shell")

//go:embed templates/*.tmpl
var templateFS embed.FS

// Kind is one of the supported interactive shells. The zero value is not a
// valid shell.
type Kind int

const (
	Zsh Kind = iota + 1
	Bash
)

type variant struct {
	name     string
	template string
}

var variants = map[Kind]variant{
	Zsh:  {name: "zsh", template: "templates/init.zsh.tmpl"},
	Bash: {name: "bash", template: "templates/init.bash.tmpl"},
}

// Parse maps a shell path such as the value of $SHELL to a Kind
func Parse(shellPath string) (Kind, error) {
	name := strings.TrimPrefix(filepath.Base(strings.TrimSpace(shellPath)), "-")
	for kind, v := range variants {
		if v.name == name {
			return kind, nil
		}
	}

	if shellPath == "" {
		return 0, fmt.Errorf("%w: SHELL is not set", ErrUnsupportedShell)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedShell, name)
}

// Valid reports whether k is a supported shell
func (k Kind) Valid() bool {
	_, ok := variants[k]
	return ok
}

// Name is the process name of the shell
func (k Kind) Name() string {
	if v, ok := variants[k]; ok {
		return v.name
	}
	return "unknown"
}

func (k Kind) String() string {
	return k.Name()
}

// InitScript renders the one-time hookup snippet the user evaluates from
// their shell rc file. exe is the absolute path of this binary.
func (k Kind) InitScript(exe string) (string, error) {
	v, ok := variants[k]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedShell, int(k))
	}

	tmpl, err := template.ParseFS(templateFS, v.template)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s init template: %w", v.name, err)
	}

	var sb strings.Builder
	data := struct{ Exe, Shell string }{Exe: Quote(exe), Shell: v.name}
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s init template: %w", v.name, err)
	}

	return sb.String(), nil
}

// LoadCommand returns the line that sources the plugin found in dir. The
// helper it calls is defined by the init script.
func (k Kind) LoadCommand(dir string) string {
	return "_shco_load " + Quote(dir)
}

// Quote wraps s in single quotes for both zsh and bash
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
