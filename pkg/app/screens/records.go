package screens

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmartinho/es-outfitter/pkg/app/styles"
	"github.com/rmartinho/es-outfitter/pkg/data"
	"github.com/rmartinho/es-outfitter/pkg/services"
)

type recordKind int

const (
	shipRecords recordKind = iota
	variantRecords
	outfitRecords
)

func (k recordKind) String() string {
	switch k {
	case shipRecords:
		return "Ships"
	case variantRecords:
		return "Variants"
	default:
		return "Outfits"
	}
}

// RecordsScreen browses the combined ships, variants and outfits.
type RecordsScreen struct {
	controller *services.Controller
	kind       recordKind
	records    table.Model
	filter     textinput.Model
	width      int
	height     int
}

func NewRecordsScreen(controller *services.Controller) *RecordsScreen {
	ti := textinput.New()
	ti.Placeholder = "Filter by name or category..."
	ti.CharLimit = 100
	ti.Width = 40

	t := table.New(
		table.WithColumns(recordColumns(shipRecords)),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.Foreground).
		Background(styles.Primary).
		Bold(false)
	t.SetStyles(s)

	return &RecordsScreen{
		controller: controller,
		kind:       shipRecords,
		records:    t,
		filter:     ti,
	}
}

func (s *RecordsScreen) Init() tea.Cmd {
	s.refresh()
	return nil
}

// Capturing reports whether keystrokes are going to the filter input.
func (s *RecordsScreen) Capturing() bool {
	return s.filter.Focused()
}

func (s *RecordsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		if h := msg.Height - 14; h > 3 {
			s.records.SetHeight(h)
		}
		return s, nil

	case LoadEventMsg:
		if !msg.Progress.IsLoading {
			s.refresh()
		}
		return s, nil

	case tea.KeyMsg:
		if s.filter.Focused() {
			switch msg.String() {
			case "enter", "esc":
				s.filter.Blur()
				s.records.Focus()
				return s, nil
			}
			s.filter, cmd = s.filter.Update(msg)
			s.refresh()
			return s, cmd
		}

		switch msg.String() {
		case "/":
			s.records.Blur()
			return s, s.filter.Focus()
		case "1":
			s.setKind(shipRecords)
			return s, nil
		case "2":
			s.setKind(variantRecords)
			return s, nil
		case "3":
			s.setKind(outfitRecords)
			return s, nil
		case "left", "h":
			s.setKind((s.kind + 2) % 3)
			return s, nil
		case "right", "l":
			s.setKind((s.kind + 1) % 3)
			return s, nil
		case "r":
			s.refresh()
			return s, nil
		case "esc":
			if s.filter.Value() != "" {
				s.filter.SetValue("")
				s.refresh()
			}
			return s, nil
		}
	}

	s.records, cmd = s.records.Update(msg)
	return s, cmd
}

func (s *RecordsScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("🚀 Records")

	var kinds []string
	for k := shipRecords; k <= outfitRecords; k++ {
		label := fmt.Sprintf("%d %s", int(k)+1, k)
		if k == s.kind {
			kinds = append(kinds, styles.ActiveTabStyle.Render(label))
		} else {
			kinds = append(kinds, styles.InactiveTabStyle.Render(label))
		}
	}
	kindTabs := lipgloss.JoinHorizontal(lipgloss.Top, kinds...)

	inputStyle := styles.InputStyle
	if s.filter.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	filterView := inputStyle.Render(s.filter.View())

	var body string
	if len(s.records.Rows()) == 0 {
		body = styles.MutedStyle.Render("Nothing to show. Add plugins on the Plugins tab or change the filter.")
	} else {
		body = s.records.View() + "\n" +
			styles.MutedStyle.Render(fmt.Sprintf("%d %s", len(s.records.Rows()), strings.ToLower(s.kind.String())))
	}

	help := "1/2/3 ←/→: kind • ↑/↓: scroll • /: filter • esc: clear filter • tab: switch view • q: quit"
	if s.filter.Focused() {
		help = "enter/esc: done filtering"
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s\n%s",
		header,
		kindTabs,
		filterView,
		body,
		styles.HelpStyle.Render(help),
	)
}

func (s *RecordsScreen) setKind(kind recordKind) {
	if kind == s.kind {
		return
	}
	s.kind = kind
	s.records.SetRows(nil)
	s.records.SetColumns(recordColumns(kind))
	s.records.SetCursor(0)
	s.refresh()
}

func (s *RecordsScreen) refresh() {
	s.records.SetRows(recordRows(s.controller.Data(), s.kind, s.filter.Value()))
}

func recordColumns(kind recordKind) []table.Column {
	switch kind {
	case shipRecords:
		return []table.Column{
			{Title: "Name", Width: 32},
			{Title: "Category", Width: 20},
			{Title: "Guns", Width: 6},
			{Title: "Turrets", Width: 8},
			{Title: "Bays", Width: 6},
		}
	case variantRecords:
		return []table.Column{
			{Title: "Name", Width: 32},
			{Title: "Base", Width: 24},
			{Title: "Guns", Width: 6},
			{Title: "Turrets", Width: 8},
			{Title: "Bays", Width: 6},
		}
	default:
		return []table.Column{
			{Title: "Name", Width: 36},
			{Title: "Category", Width: 24},
		}
	}
}

// recordRows lists the records of one kind whose name or category contains
// query, sorted by name.
func recordRows(d *data.PluginData, kind recordKind, query string) []table.Row {
	query = strings.ToLower(strings.TrimSpace(query))
	match := func(fields ...string) bool {
		if query == "" {
			return true
		}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), query) {
				return true
			}
		}
		return false
	}

	rows := []table.Row{}
	switch kind {
	case shipRecords:
		for _, name := range sortedNames(d.Ships) {
			ship := d.Ships[name]
			if match(ship.Name, ship.Category) {
				rows = append(rows, table.Row{
					ship.Name, ship.Category,
					fmt.Sprint(ship.Guns), fmt.Sprint(ship.Turrets), fmt.Sprint(ship.Bays),
				})
			}
		}
	case variantRecords:
		for _, name := range sortedNames(d.Variants) {
			v := d.Variants[name]
			if match(v.Name, v.Base) {
				rows = append(rows, table.Row{
					v.Name, v.Base,
					inherited(v.Guns), inherited(v.Turrets), inherited(v.Bays),
				})
			}
		}
	case outfitRecords:
		for _, name := range sortedNames(d.Outfits) {
			o := d.Outfits[name]
			if match(o.Name, o.Category) {
				rows = append(rows, table.Row{o.Name, o.Category})
			}
		}
	}
	return rows
}

func inherited(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprint(*n)
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
