package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rmartinho/es-outfitter/pkg/data"
	"github.com/rmartinho/es-outfitter/pkg/services"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List added plugins",
	Long:  "Display added plugins in load order with their load status",
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(withSession(nil, func(s *services.Session) error {
			plugins := s.Controller.Plugins()
			if len(plugins) == 0 {
				fmt.Println("📦 No plugins added. Use 'outfitter add <url>' to add one.")
				return nil
			}

			columns := []table.Column{
				{Title: "#", Width: 3},
				{Title: "Plugin", Width: 40},
				{Title: "Branch", Width: 14},
				{Title: "SHA", Width: 8},
				{Title: "Enabled", Width: 8},
				{Title: "Status", Width: 30},
			}

			rows := []table.Row{}
			for i, p := range plugins {
				status := "unknown"
				if st, ok := s.Controller.State(p.URL); ok {
					status = describeProgress(st.Progress())
				}
				enabled := "no"
				if p.Enabled {
					enabled = "yes"
				}
				rows = append(rows, table.Row{
					fmt.Sprintf("%d", i+1),
					truncateString(pluginName(p), 38),
					truncateString(p.Branch, 12),
					shortSHA(p.SHA),
					enabled,
					truncateString(status, 28),
				})
			}

			fmt.Printf("\n📦 Plugins (%d)\n\n", len(plugins))
			fmt.Println(renderTable(columns, rows))
			return nil
		}))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func renderTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.NoColor{}).
		Bold(false)
	t.SetStyles(s)

	return t.View()
}

func pluginName(p *data.Plugin) string {
	name := p.Owner + "/" + p.Repo
	if p.Dir != "" {
		name += "/" + p.Dir
	}
	if p.IsBase {
		name += " (base)"
	}
	return name
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func truncateString(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n-1])) + "…"
}
