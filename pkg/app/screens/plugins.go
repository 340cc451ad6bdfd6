package screens

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rmartinho/es-outfitter/pkg/app/components"
	"github.com/rmartinho/es-outfitter/pkg/app/styles"
	"github.com/rmartinho/es-outfitter/pkg/integrations"
	"github.com/rmartinho/es-outfitter/pkg/services"
)

const catalogTitle = "Endless Sky Catalog"

type PluginsScreen struct {
	session    *services.Session
	pluginList *components.PluginList
	tracker    *components.ProgressTracker
	input      textinput.Model
	width      int
	height     int
	notice     string
	err        error
}

func NewPluginsScreen(session *services.Session) *PluginsScreen {
	ti := textinput.New()
	ti.Placeholder = "https://github.com/owner/repo/tree/branch/dir"
	ti.CharLimit = 300
	ti.Width = 60

	return &PluginsScreen{
		session:    session,
		pluginList: components.NewPluginList(),
		tracker:    components.NewProgressTracker(60),
		input:      ti,
	}
}

func (s *PluginsScreen) Init() tea.Cmd {
	return s.loadPlugins
}

// Capturing reports whether keystrokes are going to the URL input.
func (s *PluginsScreen) Capturing() bool {
	return s.input.Focused()
}

func (s *PluginsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.pluginList.Width = msg.Width - 4
		s.pluginList.Height = msg.Height - 12
		s.tracker.SetWidth(msg.Width - 8)

	case tea.KeyMsg:
		if s.input.Focused() {
			switch msg.String() {
			case "enter":
				url := s.input.Value()
				s.input.Blur()
				s.input.SetValue("")
				if url != "" {
					return s, s.addPlugin(url)
				}
				return s, nil
			case "esc":
				s.input.Blur()
				s.input.SetValue("")
				return s, nil
			}
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}

		switch msg.String() {
		case "up", "k":
			s.pluginList.Prev()
		case "down", "j":
			s.pluginList.Next()
		case "a":
			s.err = nil
			s.notice = ""
			return s, s.input.Focus()
		case "b":
			return s, s.ensureBase
		case " ", "space":
			if selected := s.pluginList.Selected(); selected != nil {
				return s, s.toggle(selected.Plugin.URL, !selected.Plugin.Enabled)
			}
		case "d":
			if selected := s.pluginList.Selected(); selected != nil {
				s.tracker.Dismiss(selected.Plugin.URL)
				return s, s.removePlugin(selected.Plugin.URL)
			}
		case "x":
			if selected := s.pluginList.Selected(); selected != nil {
				s.tracker.Dismiss(selected.Plugin.URL)
			}
		case "e":
			s.notice = "Exporting catalog..."
			return s, s.exportCatalog
		case "r":
			return s, s.loadPlugins
		case "enter":
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "records"}
			}
		}

	case LoadEventMsg:
		s.tracker.Update(services.LoadEvent(msg))
		return s, s.loadPlugins

	case pluginsLoadedMsg:
		s.pluginList.SetItems(msg.items)

	case pluginChangedMsg:
		s.err = msg.err
		return s, s.loadPlugins

	case catalogExportedMsg:
		s.err = msg.err
		s.notice = ""
		if msg.err == nil {
			s.notice = fmt.Sprintf("Catalog written to %s", msg.path)
		}
	}

	return s, nil
}

func (s *PluginsScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("🧩 Plugins")

	var top string
	if s.input.Focused() {
		top = styles.FocusedInputStyle.Render(s.input.View()) + "\n\n"
	}
	if s.err != nil {
		top += styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err)) + "\n\n"
	}
	if s.notice != "" {
		top += styles.SubtitleStyle.Render(s.notice) + "\n\n"
	}

	help := "↑/k: up • ↓/j: down • a: add • b: add base game • space: enable/disable • d: remove • x: dismiss • e: export EPUB • enter: records • tab: switch view • q: quit"
	if s.input.Focused() {
		help = "enter: add plugin • esc: cancel"
	}

	return fmt.Sprintf("%s\n\n%s%s\n%s%s",
		header,
		top,
		s.pluginList.View(),
		s.tracker.View(),
		styles.HelpStyle.Render(help),
	)
}

// Messages
type pluginsLoadedMsg struct {
	items []components.PluginListItem
}

type pluginChangedMsg struct {
	err error
}

type catalogExportedMsg struct {
	path string
	err  error
}

// Commands
func (s *PluginsScreen) loadPlugins() tea.Msg {
	c := s.session.Controller
	plugins := c.Plugins()

	items := make([]components.PluginListItem, len(plugins))
	for i, p := range plugins {
		items[i] = components.PluginListItem{Plugin: p}
		if st, ok := c.State(p.URL); ok {
			items[i].Progress = st.Progress()
		}
		if d, ok := c.PluginData(p.URL); ok {
			items[i].Ships = len(d.Ships)
			items[i].Variants = len(d.Variants)
			items[i].Outfits = len(d.Outfits)
		}
	}
	return pluginsLoadedMsg{items: items}
}

func (s *PluginsScreen) addPlugin(url string) tea.Cmd {
	return func() tea.Msg {
		_, err := s.session.Controller.AddPlugin(context.Background(), url)
		return pluginChangedMsg{err: err}
	}
}

func (s *PluginsScreen) ensureBase() tea.Msg {
	_, err := s.session.Controller.EnsureBase(context.Background())
	return pluginChangedMsg{err: err}
}

func (s *PluginsScreen) toggle(url string, enabled bool) tea.Cmd {
	return func() tea.Msg {
		return pluginChangedMsg{err: s.session.Controller.SetEnabled(url, enabled)}
	}
}

func (s *PluginsScreen) removePlugin(url string) tea.Cmd {
	return func() tea.Msg {
		return pluginChangedMsg{err: s.session.Controller.RemovePlugin(url)}
	}
}

func (s *PluginsScreen) exportCatalog() tea.Msg {
	homeDir, _ := os.UserHomeDir()
	outputDir := filepath.Join(homeDir, "Downloads")

	builder := integrations.NewCatalogBuilder(
		outputDir,
		s.session.API,
		integrations.NewThumbnailProcessor(integrations.DefaultThumbnailSettings()),
	)
	path, err := builder.CreateCatalog(context.Background(), catalogTitle, s.session.Controller.Data())
	return catalogExportedMsg{path: path, err: err}
}
