package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"shco.dev/cli/internal/application/services"
)

// NewListCommand creates the list command
func NewListCommand(state *commandState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show configured plugins and whether they are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := state.container.Query.List(cmd.Context())
			if err != nil {
				return err
			}
			renderPluginTable(cmd.OutOrStdout(), infos)
			return nil
		},
	}
}

// renderPluginTable writes one row per configured plugin. Colors are only
// emitted when w is a terminal.
func renderPluginTable(w io.Writer, infos []services.PluginInfo) {
	renderer := lipgloss.NewRenderer(w)
	dim := renderer.NewStyle().Foreground(lipgloss.Color("240"))

	if len(infos) == 0 {
		fmt.Fprintln(w, dim.Render("No plugins configured."))
		return
	}

	statusColors := map[services.PluginStatus]lipgloss.Color{
		services.StatusInstalled: lipgloss.Color("46"),
		services.StatusMissing:   lipgloss.Color("214"),
		services.StatusInvalid:   lipgloss.Color("196"),
		services.StatusDuplicate: lipgloss.Color("240"),
	}

	rows := [][3]string{{"PLUGIN", "STATUS", "LOCATION"}}
	for _, info := range infos {
		name := info.Identity.String()
		location := info.Dir
		if info.Status == services.StatusInvalid {
			name = string(info.Source)
			location = info.Err.Error()
		}
		rows = append(rows, [3]string{name, string(info.Status), location})
	}

	widths := [2]int{}
	for _, row := range rows {
		widths[0] = max(widths[0], lipgloss.Width(row[0]))
		widths[1] = max(widths[1], lipgloss.Width(row[1]))
	}

	header := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	cell := renderer.NewStyle().PaddingRight(2)

	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		name := cell.Width(widths[0] + 2).Render(row[0])
		status := cell.Width(widths[1] + 2).Render(row[1])
		location := row[2]

		if i == 0 {
			lines = append(lines, header.Render(name+status+location))
			continue
		}

		color := statusColors[services.PluginStatus(row[1])]
		status = renderer.NewStyle().Foreground(color).Render(status)
		lines = append(lines, name+status+dim.Render(location))
	}

	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))

	installed := 0
	for _, info := range infos {
		if info.Status == services.StatusInstalled {
			installed++
		}
	}
	fmt.Fprintln(w, dim.Render(fmt.Sprintf("%d of %d installed", installed, len(infos))))
}
