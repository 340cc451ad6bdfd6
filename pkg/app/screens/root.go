package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmartinho/es-outfitter/pkg/app/styles"
	"github.com/rmartinho/es-outfitter/pkg/services"
)

type screenType int

const (
	pluginsView screenType = iota
	recordsView
)

// LoadEventMsg carries a controller load event into the program.
type LoadEventMsg services.LoadEvent

type SwitchScreenMsg struct {
	Screen string
}

type RootScreen struct {
	session *services.Session

	currentView screenType
	plugins     *PluginsScreen
	records     *RecordsScreen

	width  int
	height int
}

func NewRootScreen(session *services.Session) *RootScreen {
	return &RootScreen{
		session:     session,
		currentView: pluginsView,
		plugins:     NewPluginsScreen(session),
		records:     NewRecordsScreen(session.Controller),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return tea.Batch(
		r.plugins.Init(),
		r.records.Init(),
		r.listenForEvents,
	)
}

func (r *RootScreen) listenForEvents() tea.Msg {
	return LoadEventMsg(<-r.session.Controller.Events())
}

func (r *RootScreen) capturing() bool {
	switch r.currentView {
	case pluginsView:
		return r.plugins.Capturing()
	case recordsView:
		return r.records.Capturing()
	}
	return false
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		_, c1 := r.plugins.Update(msg)
		_, c2 := r.records.Update(msg)
		return r, tea.Batch(c1, c2)

	case LoadEventMsg:
		// Both screens track loads, whichever is showing.
		_, c1 := r.plugins.Update(msg)
		_, c2 := r.records.Update(msg)
		return r, tea.Batch(c1, c2, r.listenForEvents)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return r, tea.Quit
		}
		if !r.capturing() {
			switch msg.String() {
			case "q":
				return r, tea.Quit
			case "tab":
				r.currentView = (r.currentView + 1) % 2
				if r.currentView == recordsView {
					return r, r.records.Init()
				}
				return r, r.plugins.Init()
			}
		}

	case SwitchScreenMsg:
		switch msg.Screen {
		case "plugins":
			r.currentView = pluginsView
			return r, r.plugins.Init()
		case "records":
			r.currentView = recordsView
			return r, r.records.Init()
		}
		return r, nil
	}

	// Forward message to active screen
	var cmd tea.Cmd
	switch r.currentView {
	case pluginsView:
		_, cmd = r.plugins.Update(msg)
	case recordsView:
		_, cmd = r.records.Update(msg)
	}
	return r, cmd
}

func (r *RootScreen) View() string {
	var content string
	switch r.currentView {
	case pluginsView:
		content = r.plugins.View()
	case recordsView:
		content = r.records.View()
	}

	return fmt.Sprintf("%s\n\n%s", r.renderTabs(), content)
}

func (r *RootScreen) renderTabs() string {
	pluginsTab := "Plugins"
	recordsTab := "Records"

	if r.currentView == pluginsView {
		pluginsTab = styles.ActiveTabStyle.Render(pluginsTab)
		recordsTab = styles.InactiveTabStyle.Render(recordsTab)
	} else {
		pluginsTab = styles.InactiveTabStyle.Render(pluginsTab)
		recordsTab = styles.ActiveTabStyle.Render(recordsTab)
	}

	loading := ""
	if n := r.session.Controller.Loading(); n > 0 {
		loading = styles.StatusLoading.Render(fmt.Sprintf("  ⟳ %d loading", n))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, pluginsTab, recordsTab, loading)
}
