package aemsearch

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// Node is a unit of content in the repository: a page, component, asset or
// folder, addressed by its absolute path.
type Node struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	Title        string    `json:"title,omitempty"`
	NodeType     string    `json:"nodeType,omitempty"`
	LastModified time.Time `json:"lastModified,omitzero"`

	// Active is false for unpublished or deactivated content.
	Active bool `json:"active"`
}

// Label returns the display title, falling back to the node name.
func (n *Node) Label() string {
	if n.Title != "" {
		return n.Title
	}
	return n.Name
}

// RepositoryClient is the capability interface the search core consumes.
// Implementations own transport concerns such as retries and backoff.
type RepositoryClient interface {
	// Exists is a cheap existence probe for path. When includeInactive is
	// false an unpublished node reports false.
	Exists(ctx context.Context, path string, includeInactive bool) (bool, error)

	// ListChildren returns the descendants of path up to depth levels below
	// it. The node at path itself is not included.
	ListChildren(ctx context.Context, path string, depth int, includeInactive bool) ([]*Node, error)
}

// LocaleLister is optionally implemented by a RepositoryClient that can
// enumerate locale codes beneath a path.
type LocaleLister interface {
	Locales(ctx context.Context, path string) ([]string, error)
}

// NodeWriter persists repository nodes, e.g. into an offline mirror.
type NodeWriter interface {
	// SaveNodes upserts nodes and returns how many rows changed.
	SaveNodes(ctx context.Context, nodes []*Node) (int, error)
}

// RepositoryErrorKind classifies a repository failure.
type RepositoryErrorKind int

const (
	RepoUnknown RepositoryErrorKind = iota
	RepoNotFound
	RepoTimeout
	RepoAccessDenied
)

func (k RepositoryErrorKind) String() string {
	switch k {
	case RepoNotFound:
		return "NotFound"
	case RepoTimeout:
		return "Timeout"
	case RepoAccessDenied:
		return "AccessDenied"
	default:
		return "Unknown"
	}
}

func (k RepositoryErrorKind) code() string {
	switch k {
	case RepoNotFound:
		return ENOTFOUND
	case RepoTimeout:
		return ETIMEOUT
	case RepoAccessDenied:
		return EFORBIDDEN
	default:
		return EUNKNOWN
	}
}

// RepositoryError is returned by RepositoryClient implementations.
type RepositoryError struct {
	Kind RepositoryErrorKind
	Path string
	Err  error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("repository %s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("repository %s: %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// PathDepth returns the number of segments in an absolute repository path.
// The root "/" has depth 0.
func PathDepth(p string) int {
	p = strings.Trim(p, "/")
	if p == "" {
		return 0
	}
	return strings.Count(p, "/") + 1
}

// JoinPath joins repository path segments, cleaning duplicate separators.
func JoinPath(base string, elem ...string) string {
	return path.Join(append([]string{"/", base}, elem...)...)
}
