package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rmartinho/es-outfitter/pkg/app/styles"
	"github.com/rmartinho/es-outfitter/pkg/data"
)

type PluginListItem struct {
	Plugin   *data.Plugin
	Progress data.LoadProgress
	Ships    int
	Variants int
	Outfits  int
}

type PluginList struct {
	Items         []PluginListItem
	SelectedIndex int
	Width         int
	Height        int
}

func NewPluginList() *PluginList {
	return &PluginList{
		Items:         []PluginListItem{},
		SelectedIndex: 0,
		Width:         80,
		Height:        20,
	}
}

// SetItems replaces the list, keeping the selection on the same plugin when
// it is still present.
func (m *PluginList) SetItems(items []PluginListItem) {
	var selectedURL string
	if sel := m.Selected(); sel != nil {
		selectedURL = sel.Plugin.URL
	}

	m.Items = items
	m.SelectedIndex = 0
	for i, item := range items {
		if item.Plugin.URL == selectedURL {
			m.SelectedIndex = i
			return
		}
	}
}

func (m *PluginList) Next() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex++
	if m.SelectedIndex >= len(m.Items) {
		m.SelectedIndex = 0
	}
}

func (m *PluginList) Prev() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex--
	if m.SelectedIndex < 0 {
		m.SelectedIndex = len(m.Items) - 1
	}
}

func (m *PluginList) Selected() *PluginListItem {
	if len(m.Items) == 0 || m.SelectedIndex >= len(m.Items) {
		return nil
	}
	return &m.Items[m.SelectedIndex]
}

func (m *PluginList) View() string {
	if len(m.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render("No plugins yet. Press a to add one.")
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder
	for i, item := range m.Items {
		cardStyle := styles.CardStyle
		if i == m.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		p := item.Plugin
		name := p.Owner + "/" + p.Repo
		if p.Dir != "" {
			name += "/" + p.Dir
		}
		if p.IsBase {
			name += " (base game)"
		}
		title := styles.TitleStyle.UnsetMarginBottom().Render(fmt.Sprintf("%d. %s", i+1, name))

		status := StatusName(item.Progress, p.Enabled)
		statusLine := styles.StatusStyle(status).Render(DescribeProgress(item.Progress))
		if !p.Enabled {
			statusLine += styles.StatusDisabled.Render(" • disabled")
		}

		ref := p.Branch
		if ref == "" {
			ref = "default branch"
		}
		if len(p.SHA) >= 7 {
			ref += "@" + p.SHA[:7]
		}
		refLine := styles.MutedStyle.Render(ref)

		counts := styles.MutedStyle.Render(
			fmt.Sprintf("Ships: %d • Variants: %d • Outfits: %d", item.Ships, item.Variants, item.Outfits),
		)

		cardContent := lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			refLine,
			counts,
			statusLine,
		)

		card := cardStyle.Width(m.Width - 4).Render(cardContent)
		b.WriteString(card)
		b.WriteString("\n")
	}

	return b.String()
}
