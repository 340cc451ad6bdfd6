package services

import (
	"sync"

	"github.com/rmartinho/es-outfitter/pkg/data"
)

// LoadEvent is emitted whenever a plugin's load progress changes.
type LoadEvent struct {
	URL      string
	Progress data.LoadProgress
}

// LoadState is the live progress handle of one plugin load. The same handle
// is returned for every AddPlugin call with the same URL.
type LoadState struct {
	url      string
	mu       sync.Mutex
	progress data.LoadProgress
	onChange func(LoadEvent)
}

func newLoadState(url string, progress data.LoadProgress, onChange func(LoadEvent)) *LoadState {
	return &LoadState{url: url, progress: progress, onChange: onChange}
}

func (s *LoadState) URL() string {
	return s.url
}

// Progress returns a copy of the current progress.
func (s *LoadState) Progress() data.LoadProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProgress(s.progress)
}

func (s *LoadState) IsLoading() bool {
	return s.Progress().IsLoading
}

func (s *LoadState) update(fn func(p *data.LoadProgress)) {
	s.mu.Lock()
	fn(&s.progress)
	p := copyProgress(s.progress)
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(LoadEvent{URL: s.url, Progress: p})
	}
}

func (s *LoadState) setTotal(n int) {
	s.update(func(p *data.LoadProgress) {
		p.Total = &n
	})
}

func (s *LoadState) increment() {
	s.update(func(p *data.LoadProgress) {
		p.Progress++
	})
}

func (s *LoadState) finish(err error) {
	s.update(func(p *data.LoadProgress) {
		p.IsLoading = false
		if err != nil {
			p.Error = err.Error()
		}
	})
}

func copyProgress(p data.LoadProgress) data.LoadProgress {
	if p.Total != nil {
		total := *p.Total
		p.Total = &total
	}
	return p
}
