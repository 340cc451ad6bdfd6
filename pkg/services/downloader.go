package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rmartinho/es-outfitter/pkg/data"
	"github.com/rmartinho/es-outfitter/pkg/parser"
	"github.com/rmartinho/es-outfitter/pkg/sources"
	"github.com/rmartinho/es-outfitter/pkg/utils"
)

const DefaultConcurrency = 8

// Fetcher downloads the text of a data file.
type Fetcher interface {
	GetText(ctx context.Context, url string) (string, error)
}

// Loader fetches and parses the data files of one plugin.
type Loader struct {
	fetcher     Fetcher
	parser      parser.Parser
	rawBase     string
	concurrency int
}

func NewLoader(fetcher Fetcher, p parser.Parser, rawBase string, concurrency int) *Loader {
	if p == nil {
		p = parser.Default
	}
	if rawBase == "" {
		rawBase = sources.DefaultRawBaseURL
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Loader{fetcher: fetcher, parser: p, rawBase: rawBase, concurrency: concurrency}
}

// LoadFiles fetches, parses and transforms every url concurrently and returns
// the results in the order of urls. onFileDone, if set, runs once per file
// that completes. The first failure cancels the rest and is returned.
func (l *Loader) LoadFiles(ctx context.Context, plugin *data.Plugin, urls []string, onFileDone func()) ([]*data.PluginData, error) {
	parts := make([]*data.PluginData, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, url := range urls {
		g.Go(func() error {
			d, err := l.LoadFile(ctx, plugin, url)
			if err != nil {
				return err
			}
			parts[i] = d
			if onFileDone != nil {
				onFileDone()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}

// LoadFile fetches, parses and transforms a single data file.
func (l *Loader) LoadFile(ctx context.Context, plugin *data.Plugin, url string) (*data.PluginData, error) {
	text, err := l.fetcher.GetText(ctx, url)
	if err != nil {
		return nil, err
	}
	d, err := l.parser.Parse(text)
	if err != nil {
		return nil, &utils.FetchError{Op: "parse", URL: url, Err: err}
	}
	if d == nil {
		return nil, &utils.FetchError{Op: "parse", URL: url, Err: fmt.Errorf("parser returned no data")}
	}
	return TransformPluginData(d, plugin, l.rawBase), nil
}
