package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/rmartinho/es-outfitter/pkg/data"
	"github.com/rmartinho/es-outfitter/pkg/utils"
)

// FileLister discovers the data files of a plugin. It may fill in the
// plugin's branch and SHA.
type FileLister interface {
	ListDataFiles(ctx context.Context, p *data.Plugin) ([]string, error)
}

// Controller owns the plugin registry, the per plugin datasets and their
// load progress, and runs plugin loads in the background.
type Controller struct {
	lister  FileLister
	loader  *Loader
	logger  *log.Logger
	baseURL string

	mu       sync.RWMutex
	registry *Registry
	datasets map[string]*data.PluginData
	states   map[string]*LoadState
	version  uint64

	view        *data.PluginData
	viewVersion uint64

	inflight int
	idle     chan struct{} // closed while inflight is zero
	events   chan LoadEvent
}

type ControllerOption func(*Controller)

func WithLogger(logger *log.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithBaseURL sets the URL EnsureBase adds.
func WithBaseURL(url string) ControllerOption {
	return func(c *Controller) {
		c.baseURL = url
	}
}

func NewController(lister FileLister, loader *Loader, opts ...ControllerOption) *Controller {
	c := &Controller{
		lister:   lister,
		loader:   loader,
		logger:   utils.Discard(),
		baseURL:  DefaultBaseURL,
		registry: NewRegistry(),
		datasets: make(map[string]*data.PluginData),
		states:   make(map[string]*LoadState),
		idle:     make(chan struct{}),
		events:   make(chan LoadEvent, 100),
	}
	close(c.idle)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events returns the channel progress updates are sent on. Updates are
// dropped while the channel is full.
func (c *Controller) Events() <-chan LoadEvent {
	return c.events
}

func (c *Controller) sendEvent(e LoadEvent) {
	select {
	case c.events <- e:
	default:
	}
}

// AddPlugin registers the plugin at url and starts loading it in the
// background. Adding a URL that is already registered returns its existing
// handle and starts nothing. The load runs under ctx.
func (c *Controller) AddPlugin(ctx context.Context, url string) (*LoadState, error) {
	c.mu.Lock()
	if c.registry.Has(url) {
		st := c.states[url]
		c.mu.Unlock()
		return st, nil
	}

	p, err := Identify(url)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	st := newLoadState(url, data.LoadProgress{IsLoading: true}, c.sendEvent)
	c.registry.Add(p)
	c.states[url] = st
	c.datasets[url] = data.NewPluginData()
	c.version++
	work := p.Clone()
	if c.inflight == 0 {
		c.idle = make(chan struct{})
	}
	c.inflight++
	c.mu.Unlock()

	c.logger.Info("adding plugin", "url", url, "owner", p.Owner, "repo", p.Repo, "dir", p.Dir)
	c.sendEvent(LoadEvent{URL: url, Progress: st.Progress()})

	go c.load(ctx, work, st)
	return st, nil
}

// EnsureBase adds the base game when no base plugin is registered. It
// returns nil when there is nothing to do.
func (c *Controller) EnsureBase(ctx context.Context) (*LoadState, error) {
	c.mu.RLock()
	hasBase := c.registry.HasBase()
	c.mu.RUnlock()
	if hasBase {
		return nil, nil
	}
	return c.AddPlugin(ctx, c.baseURL)
}

func (c *Controller) load(ctx context.Context, p *data.Plugin, st *LoadState) {
	defer c.loadDone()

	urls, err := c.lister.ListDataFiles(ctx, p)
	if err != nil {
		c.fail(st, fmt.Errorf("failed to list data files: %w", err))
		return
	}
	c.updateRef(st, p)
	st.setTotal(len(urls))
	c.logger.Debug("discovered data files", "url", st.URL(), "files", len(urls), "sha", p.SHA)

	parts, err := c.loader.LoadFiles(ctx, p, urls, st.increment)
	if err != nil {
		c.fail(st, err)
		return
	}

	c.publish(st, data.FoldPluginData(parts))
}

func (c *Controller) loadDone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if c.inflight == 0 {
		close(c.idle)
	}
}

// current reports whether st is still the registered handle for its URL.
// Callers hold c.mu.
func (c *Controller) current(st *LoadState) bool {
	return c.states[st.URL()] == st && c.registry.Has(st.URL())
}

func (c *Controller) updateRef(st *LoadState, p *data.Plugin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current(st) {
		c.registry.UpdateRef(st.URL(), p.Branch, p.SHA)
	}
}

func (c *Controller) publish(st *LoadState, d *data.PluginData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(st) {
		c.logger.Debug("discarding load of removed plugin", "url", st.URL())
		st.finish(nil)
		return
	}
	c.datasets[st.URL()] = d
	c.version++
	st.finish(nil)
	c.logger.Info("plugin loaded", "url", st.URL(),
		"ships", len(d.Ships), "variants", len(d.Variants), "outfits", len(d.Outfits))
}

func (c *Controller) fail(st *LoadState, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(st) {
		c.logger.Debug("discarding failed load of removed plugin", "url", st.URL(), "err", err)
		st.finish(nil)
		return
	}
	c.logger.Error("plugin load failed", "url", st.URL(), "err", err)
	st.finish(err)
}

// RemovePlugin unregisters url and forgets its dataset and progress. An
// in-flight load of it finishes and is discarded.
func (c *Controller) RemovePlugin(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.registry.Remove(url) {
		return fmt.Errorf("%w: %s", ErrPluginNotFound, url)
	}
	delete(c.datasets, url)
	delete(c.states, url)
	c.version++
	c.logger.Info("removed plugin", "url", url)
	return nil
}

func (c *Controller) SetEnabled(url string, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.registry.SetEnabled(url, enabled); err != nil {
		return err
	}
	c.version++
	return nil
}

// Data returns the aggregate of every enabled plugin, folded in registry
// order. The result is shared and must not be modified.
func (c *Controller) Data() *data.PluginData {
	c.mu.RLock()
	if c.view != nil && c.viewVersion == c.version {
		v := c.view
		c.mu.RUnlock()
		return v
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view == nil || c.viewVersion != c.version {
		var parts []*data.PluginData
		c.registry.each(func(p *data.Plugin) {
			if p.Enabled {
				parts = append(parts, c.datasets[p.URL])
			}
		})
		c.view = data.FoldPluginData(parts)
		c.viewVersion = c.version
	}
	return c.view
}

// PluginData returns the dataset loaded for url.
func (c *Controller) PluginData(url string) (*data.PluginData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.datasets[url]
	return d, ok
}

// Plugins returns copies of the registered plugins in order.
func (c *Controller) Plugins() []*data.Plugin {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.List()
}

// State returns the progress handle of url.
func (c *Controller) State(url string) (*LoadState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.states[url]
	return st, ok
}

// Loading reports how many registered plugins are still loading.
func (c *Controller) Loading() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, st := range c.states {
		if st.IsLoading() {
			n++
		}
	}
	return n
}

// Wait blocks until no load is running, or ctx is done. Loads started while
// Wait is blocked are waited for too.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.RLock()
	idle := c.idle
	c.mu.RUnlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot captures the registry, datasets and progress records.
func (c *Controller) Snapshot() *data.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := data.NewSnapshot()
	s.Plugins = c.registry.List()
	for url, d := range c.datasets {
		s.Data[url] = d
	}
	for url, st := range c.states {
		s.Progress[url] = st.Progress()
	}
	return s
}

// Restore replaces the controller's state with s. It does not reconcile;
// see Load.
func (c *Controller) Restore(s *data.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registry.Replace(s.Plugins)
	c.datasets = make(map[string]*data.PluginData, len(s.Data))
	c.states = make(map[string]*LoadState, len(s.Progress))
	c.registry.each(func(p *data.Plugin) {
		if d, ok := s.Data[p.URL]; ok && d != nil {
			c.datasets[p.URL] = d
		} else {
			c.datasets[p.URL] = data.NewPluginData()
		}
		c.states[p.URL] = newLoadState(p.URL, copyProgress(s.Progress[p.URL]), c.sendEvent)
	})
	c.version++
}

// Load restores the stored snapshot through p and returns the URLs dropped
// by reconciliation.
func (c *Controller) Load(p *data.Persistence) ([]string, error) {
	s, dropped, err := p.Restore()
	if err != nil {
		return nil, fmt.Errorf("failed to restore snapshot: %w", err)
	}
	for _, url := range dropped {
		c.logger.Warn("dropped plugin with unfinished load", "url", url)
	}
	c.Restore(s)
	return dropped, nil
}

// Save persists the current state through p.
func (c *Controller) Save(p *data.Persistence) error {
	if err := p.Save(c.Snapshot()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
