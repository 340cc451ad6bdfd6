package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rmartinho/es-outfitter/pkg/data"
)

const (
	BaseGameOwner = "endless-sky"
	BaseGameRepo  = "endless-sky"

	DefaultBaseURL = "https://github.com/" + BaseGameOwner + "/" + BaseGameRepo
)

var (
	ErrInvalidSourceURL = errors.New("invalid plugin url")
	ErrPluginNotFound   = errors.New("plugin not found")
)

// Identify parses a repository URL of the form
// https://host/owner/repo[/tree/branch[/dir...]]. The segment after repo is
// not checked, so /blob/ URLs work too.
func Identify(raw string) (*data.Plugin, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSourceURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute url", ErrInvalidSourceURL, raw)
	}

	var segs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) < 2 {
		return nil, fmt.Errorf("%w: %q has no owner and repo", ErrInvalidSourceURL, raw)
	}

	p := &data.Plugin{
		Owner:   segs[0],
		Repo:    strings.TrimSuffix(segs[1], ".git"),
		Enabled: true,
		URL:     raw,
	}
	if len(segs) > 3 {
		p.Branch = segs[3]
	}
	if len(segs) > 4 {
		p.Dir = strings.Join(segs[4:], "/")
	}
	p.IsBase = p.Owner == BaseGameOwner && p.Repo == BaseGameRepo
	return p, nil
}

// Registry is the ordered list of plugins, keyed by URL. It is not safe for
// concurrent use; the Controller guards it.
type Registry struct {
	plugins []*data.Plugin
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Index(url string) int {
	for i, p := range r.plugins {
		if p.URL == url {
			return i
		}
	}
	return -1
}

func (r *Registry) Has(url string) bool {
	return r.Index(url) >= 0
}

func (r *Registry) Get(url string) (*data.Plugin, bool) {
	if i := r.Index(url); i >= 0 {
		return r.plugins[i], true
	}
	return nil, false
}

// Add appends p unless its URL is already registered.
func (r *Registry) Add(p *data.Plugin) bool {
	if r.Has(p.URL) {
		return false
	}
	r.plugins = append(r.plugins, p)
	return true
}

func (r *Registry) Remove(url string) bool {
	i := r.Index(url)
	if i < 0 {
		return false
	}
	r.plugins = append(r.plugins[:i], r.plugins[i+1:]...)
	return true
}

func (r *Registry) SetEnabled(url string, enabled bool) error {
	p, ok := r.Get(url)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPluginNotFound, url)
	}
	p.Enabled = enabled
	return nil
}

// UpdateRef records a resolved branch and SHA. A SHA already set wins.
func (r *Registry) UpdateRef(url, branch, sha string) {
	p, ok := r.Get(url)
	if !ok {
		return
	}
	if p.Branch == "" {
		p.Branch = branch
	}
	if p.SHA == "" {
		p.SHA = sha
	}
}

// List returns copies of the plugins in order.
func (r *Registry) List() []*data.Plugin {
	out := make([]*data.Plugin, len(r.plugins))
	for i, p := range r.plugins {
		out[i] = p.Clone()
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.plugins)
}

func (r *Registry) HasBase() bool {
	for _, p := range r.plugins {
		if p.IsBase {
			return true
		}
	}
	return false
}

// Replace swaps the whole list, keeping the given order.
func (r *Registry) Replace(plugins []*data.Plugin) {
	r.plugins = make([]*data.Plugin, 0, len(plugins))
	for _, p := range plugins {
		r.Add(p.Clone())
	}
}

func (r *Registry) each(fn func(p *data.Plugin)) {
	for _, p := range r.plugins {
		fn(p)
	}
}
