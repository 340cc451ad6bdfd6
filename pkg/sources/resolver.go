package sources

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rmartinho/es-outfitter/pkg/data"
)

// Resolver finds the files of a plugin folder by walking the remote tree one
// path segment at a time instead of listing the whole repository.
type Resolver struct {
	trees   TreeService
	rawBase string
	logger  *log.Logger
}

func NewResolver(trees TreeService, rawBase string, logger *log.Logger) *Resolver {
	if rawBase == "" {
		rawBase = DefaultRawBaseURL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{trees: trees, rawBase: rawBase, logger: logger}
}

// RawBase returns the host prefix content URLs are built from.
func (r *Resolver) RawBase() string {
	return r.rawBase
}

// ResolveRef fills in the plugin's branch and root tree SHA if they are not
// known yet. A SHA that is already set is kept as is.
func (r *Resolver) ResolveRef(ctx context.Context, p *data.Plugin) error {
	if p.SHA != "" {
		return nil
	}
	if p.Branch == "" {
		branch, err := r.trees.DefaultBranch(ctx, p.Owner, p.Repo)
		if err != nil {
			return err
		}
		p.Branch = branch
	}

	root, err := r.trees.Tree(ctx, p.Owner, p.Repo, p.Branch, false)
	if err != nil {
		return err
	}
	if root.SHA == "" {
		return fmt.Errorf("tree %s/%s@%s has no sha", p.Owner, p.Repo, p.Branch)
	}
	p.SHA = root.SHA
	r.logger.Debug("resolved ref", "owner", p.Owner, "repo", p.Repo, "branch", p.Branch, "sha", p.SHA)
	return nil
}

// ListFiles returns the raw content URL of every file below folder in the
// plugin's root directory. A folder that does not exist yields an empty list.
func (r *Resolver) ListFiles(ctx context.Context, p *data.Plugin, folder string) ([]string, error) {
	if err := r.ResolveRef(ctx, p); err != nil {
		return nil, err
	}

	segments := append(splitPath(p.Dir), splitPath(folder)...)
	sha := p.SHA
	for _, seg := range segments {
		t, err := r.trees.Tree(ctx, p.Owner, p.Repo, sha, false)
		if err != nil {
			return nil, err
		}
		entry, ok := t.Find(seg)
		if !ok || !entry.IsDir() {
			r.logger.Debug("folder not found", "owner", p.Owner, "repo", p.Repo, "segment", seg)
			return nil, nil
		}
		sha = entry.SHA
	}

	leaf, err := r.trees.Tree(ctx, p.Owner, p.Repo, sha, true)
	if err != nil {
		return nil, err
	}
	if leaf.Truncated {
		r.logger.Warn("tree listing truncated", "owner", p.Owner, "repo", p.Repo, "folder", folder)
	}

	prefix := strings.Join(splitPath(folder), "/")
	var urls []string
	for _, e := range leaf.Entries {
		if e.IsDir() {
			continue
		}
		urls = append(urls, RawURL(r.rawBase, p.Owner, p.Repo, p.SHA, p.Dir, path.Join(prefix, e.Path)))
	}
	return urls, nil
}

// ListDataFiles lists the plugin's data folder.
func (r *Resolver) ListDataFiles(ctx context.Context, p *data.Plugin) ([]string, error) {
	return r.ListFiles(ctx, p, "data")
}
