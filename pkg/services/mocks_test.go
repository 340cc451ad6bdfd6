package services

import (
	"context"
	"net/http"
	"sync"

	"github.com/rmartinho/es-outfitter/pkg/data"
	"github.com/rmartinho/es-outfitter/pkg/utils"
)

// Mock implementations for testing

type mockLister struct {
	listFunc func(ctx context.Context, p *data.Plugin) ([]string, error)
}

func (m *mockLister) ListDataFiles(ctx context.Context, p *data.Plugin) ([]string, error) {
	if p.Branch == "" {
		p.Branch = "master"
	}
	if p.SHA == "" {
		p.SHA = "sha-" + p.Repo
	}
	if m.listFunc != nil {
		return m.listFunc(ctx, p)
	}
	return nil, nil
}

// mockFetcher serves files from a map; unknown URLs are a 404.
type mockFetcher struct {
	mu    sync.Mutex
	files map[string]string
	hits  map[string]int
	hook  func(url string)
}

func newMockFetcher(files map[string]string) *mockFetcher {
	return &mockFetcher{files: files, hits: make(map[string]int)}
}

func (m *mockFetcher) GetText(ctx context.Context, url string) (string, error) {
	if m.hook != nil {
		m.hook(url)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits[url]++
	text, ok := m.files[url]
	if !ok {
		return "", &utils.FetchError{Op: "fetch", URL: url, Err: &utils.StatusError{Code: http.StatusNotFound, Status: "404 Not Found"}}
	}
	return text, nil
}

// listing maps plugin repos to their data file URLs.
func listing(files map[string][]string) *mockLister {
	return &mockLister{
		listFunc: func(ctx context.Context, p *data.Plugin) ([]string, error) {
			return files[p.Repo], nil
		},
	}
}
