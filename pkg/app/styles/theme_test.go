package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestStatusStyle(t *testing.T) {
	tests := map[string]lipgloss.TerminalColor{
		StatusNameLoading:  Info,
		StatusNameLoaded:   Success,
		StatusNameFailed:   Error,
		StatusNameDisabled: Warning,
		"unknown":          Muted,
	}

	for status, want := range tests {
		if got := StatusStyle(status).GetForeground(); got != want {
			t.Errorf("%s: expected foreground %v, got %v", status, want, got)
		}
	}
}
