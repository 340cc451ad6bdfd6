// Package sources resolves plugin content inside remote repository trees.
package sources

import (
	"context"
	"strings"
)

const (
	EntryTree = "tree"
	EntryBlob = "blob"
)

// TreeEntry is one immediate or recursive child of a tree.
type TreeEntry struct {
	Path string
	Type string
	SHA  string
}

func (e TreeEntry) IsDir() bool {
	return e.Type == EntryTree
}

// Tree is a directory snapshot identified by SHA.
type Tree struct {
	SHA       string
	Entries   []TreeEntry
	Truncated bool
}

// Find returns the immediate child named name.
func (t *Tree) Find(name string) (TreeEntry, bool) {
	for _, e := range t.Entries {
		if e.Path == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

// TreeService is the read-only remote repository host.
type TreeService interface {
	// DefaultBranch returns the repository's default branch name.
	DefaultBranch(ctx context.Context, owner, repo string) (string, error)

	// Tree lists a tree by SHA or ref name, optionally recursively.
	Tree(ctx context.Context, owner, repo, sha string, recursive bool) (*Tree, error)
}

// RawURL builds the raw content URL of file inside a plugin rooted at dir.
// Repeated separators in dir and file collapse.
func RawURL(base, owner, repo, sha, dir, file string) string {
	parts := []string{strings.TrimRight(base, "/"), owner, repo, sha}
	parts = append(parts, splitPath(dir)...)
	parts = append(parts, splitPath(file)...)
	return strings.Join(parts, "/")
}

// splitPath splits a slash separated path, collapsing empty segments.
func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// isObjectID reports whether ref looks like a full git object id rather than
// a (mutable) ref name.
func isObjectID(ref string) bool {
	if len(ref) != 40 && len(ref) != 64 {
		return false
	}
	for _, c := range ref {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
