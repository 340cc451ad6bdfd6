package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v61/github"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultAPIBaseURL = "https://api.github.com/"
	DefaultRawBaseURL = "https://raw.githubusercontent.com"

	defaultCacheSize = 256
)

// ErrRepositoryNotFound is returned when the host reports the repository or
// tree does not exist.
var ErrRepositoryNotFound = errors.New("repository not found")

// GitHubTrees implements TreeService over the GitHub REST API. Listings of
// full object ids are immutable and kept in an LRU cache.
type GitHubTrees struct {
	client     *github.Client
	httpClient *http.Client
	baseURL    string
	token      string
	cacheSize  int
	cache      *lru.Cache[string, *Tree]
}

type GitHubOption func(*GitHubTrees)

func WithHTTPClient(c *http.Client) GitHubOption {
	return func(g *GitHubTrees) {
		g.httpClient = c
	}
}

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(base string) GitHubOption {
	return func(g *GitHubTrees) {
		g.baseURL = base
	}
}

func WithToken(token string) GitHubOption {
	return func(g *GitHubTrees) {
		g.token = token
	}
}

func WithCacheSize(n int) GitHubOption {
	return func(g *GitHubTrees) {
		g.cacheSize = n
	}
}

func NewGitHubTrees(opts ...GitHubOption) (*GitHubTrees, error) {
	g := &GitHubTrees{
		httpClient: http.DefaultClient,
		baseURL:    DefaultAPIBaseURL,
		cacheSize:  defaultCacheSize,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.client = github.NewClient(g.httpClient)
	if g.token != "" {
		g.client = g.client.WithAuthToken(g.token)
	}
	if g.baseURL != DefaultAPIBaseURL {
		base, err := url.Parse(strings.TrimRight(g.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", g.baseURL, err)
		}
		g.client.BaseURL = base
	}

	if g.cacheSize <= 0 {
		g.cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, *Tree](g.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create tree cache: %w", err)
	}
	g.cache = cache

	return g, nil
}

func (g *GitHubTrees) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	r, _, err := g.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", wrapGitHubError(fmt.Sprintf("get repository %s/%s", owner, repo), err)
	}
	branch := r.GetDefaultBranch()
	if branch == "" {
		return "", fmt.Errorf("repository %s/%s has no default branch", owner, repo)
	}
	return branch, nil
}

func (g *GitHubTrees) Tree(ctx context.Context, owner, repo, sha string, recursive bool) (*Tree, error) {
	key := fmt.Sprintf("%s/%s@%s?recursive=%t", owner, repo, sha, recursive)
	cacheable := isObjectID(sha)
	if cacheable {
		if t, ok := g.cache.Get(key); ok {
			return t, nil
		}
	}

	gt, _, err := g.client.Git.GetTree(ctx, owner, repo, sha, recursive)
	if err != nil {
		return nil, wrapGitHubError(fmt.Sprintf("get tree %s/%s@%s", owner, repo, sha), err)
	}

	t := &Tree{
		SHA:       gt.GetSHA(),
		Truncated: gt.GetTruncated(),
		Entries:   make([]TreeEntry, 0, len(gt.Entries)),
	}
	for _, e := range gt.Entries {
		t.Entries = append(t.Entries, TreeEntry{
			Path: e.GetPath(),
			Type: e.GetType(),
			SHA:  e.GetSHA(),
		})
	}

	if cacheable {
		g.cache.Add(key, t)
	}
	return t, nil
}

func wrapGitHubError(op string, err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, ErrRepositoryNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
