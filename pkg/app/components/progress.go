package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/rmartinho/es-outfitter/pkg/app/styles"
	"github.com/rmartinho/es-outfitter/pkg/data"
	"github.com/rmartinho/es-outfitter/pkg/services"
)

// ProgressTracker keeps the loads that are running or have failed, in the
// order they were first seen. Loads that finish cleanly drop out.
type ProgressTracker struct {
	loads map[string]data.LoadProgress
	order []string
	bar   progress.Model
	width int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		loads: make(map[string]data.LoadProgress),
		bar:   newBar(width),
		width: width,
	}
}

func newBar(width int) progress.Model {
	if width < 10 {
		width = 10
	}
	return progress.New(
		progress.WithGradient(string(styles.Info), string(styles.Primary)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
}

func (p *ProgressTracker) SetWidth(width int) {
	p.width = width
	p.bar = newBar(width)
}

func (p *ProgressTracker) Update(e services.LoadEvent) {
	if !e.Progress.IsLoading && !e.Progress.Failed() {
		p.Dismiss(e.URL)
		return
	}
	if _, ok := p.loads[e.URL]; !ok {
		p.order = append(p.order, e.URL)
	}
	p.loads[e.URL] = e.Progress
}

func (p *ProgressTracker) Dismiss(url string) {
	if _, ok := p.loads[url]; !ok {
		return
	}
	delete(p.loads, url)
	for i, u := range p.order {
		if u == url {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

func (p *ProgressTracker) Clear() {
	p.loads = make(map[string]data.LoadProgress)
	p.order = nil
}

// HasActive reports whether any tracked load is still running.
func (p *ProgressTracker) HasActive() bool {
	for _, lp := range p.loads {
		if lp.IsLoading {
			return true
		}
	}
	return false
}

func (p *ProgressTracker) Len() int {
	return len(p.loads)
}

func (p *ProgressTracker) View() string {
	if len(p.loads) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Loads"))
	b.WriteString("\n")

	for _, url := range p.order {
		lp := p.loads[url]
		b.WriteString(styles.TextStyle.Render(url))
		b.WriteString("\n")

		if lp.IsLoading && lp.Total != nil && *lp.Total > 0 {
			b.WriteString(p.bar.ViewAs(Percent(lp)))
			b.WriteString("\n")
		}

		status := StatusName(lp, true)
		b.WriteString(styles.StatusStyle(status).Render(DescribeProgress(lp)))
		b.WriteString("\n\n")
	}

	return b.String()
}

// Percent is the completed fraction of a load, between 0 and 1.
func Percent(lp data.LoadProgress) float64 {
	if lp.Total == nil || *lp.Total == 0 {
		return 0
	}
	f := float64(lp.Progress) / float64(*lp.Total)
	if f > 1 {
		f = 1
	}
	return f
}

// StatusName maps a plugin's load state to one of the styles.StatusName values.
func StatusName(lp data.LoadProgress, enabled bool) string {
	switch {
	case lp.IsLoading:
		return styles.StatusNameLoading
	case lp.Failed():
		return styles.StatusNameFailed
	case !enabled:
		return styles.StatusNameDisabled
	default:
		return styles.StatusNameLoaded
	}
}

func DescribeProgress(lp data.LoadProgress) string {
	switch {
	case lp.IsLoading && lp.Total == nil:
		return "looking for data files..."
	case lp.IsLoading:
		return fmt.Sprintf("loading (%d/%d files - %.0f%%)", lp.Progress, *lp.Total, Percent(lp)*100)
	case lp.Failed():
		return fmt.Sprintf("Error: %s", lp.Error)
	case lp.Total != nil:
		return fmt.Sprintf("loaded %d files", *lp.Total)
	default:
		return "loaded"
	}
}
