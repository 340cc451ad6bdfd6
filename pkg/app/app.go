package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rmartinho/es-outfitter/pkg/app/screens"
	"github.com/rmartinho/es-outfitter/pkg/services"
)

type App struct {
	session *services.Session
}

func NewApp(session *services.Session) *App {
	return &App{session: session}
}

func (a *App) Run() error {
	model := screens.NewRootScreen(a.session)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
