package mock

import (
	"context"
	"sort"
	"strings"

	"github.com/venky7799/aemsearch"
)

// NewTree returns a RepositoryClient serving a static content tree.
// Ancestors of the given nodes exist implicitly as active folders.
// Individual functions may be replaced after construction.
func NewTree(nodes ...*aemsearch.Node) *RepositoryClient {
	sorted := make([]*aemsearch.Node, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	byPath := make(map[string]*aemsearch.Node, len(sorted))
	for _, n := range sorted {
		byPath[n.Path] = n
	}

	return &RepositoryClient{
		ExistsFn: func(ctx context.Context, path string, includeInactive bool) (bool, error) {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			if n, ok := byPath[path]; ok {
				return includeInactive || n.Active, nil
			}
			prefix := strings.TrimSuffix(path, "/") + "/"
			for _, n := range sorted {
				if strings.HasPrefix(n.Path, prefix) {
					return true, nil
				}
			}
			return false, nil
		},
		ListChildrenFn: func(ctx context.Context, path string, depth int, includeInactive bool) ([]*aemsearch.Node, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			prefix := strings.TrimSuffix(path, "/") + "/"
			base := aemsearch.PathDepth(path)
			var out []*aemsearch.Node
			for _, n := range sorted {
				if !strings.HasPrefix(n.Path, prefix) {
					continue
				}
				if d := aemsearch.PathDepth(n.Path) - base; d < 1 || d > depth {
					continue
				}
				if !includeInactive && !n.Active {
					continue
				}
				out = append(out, n)
			}
			return out, nil
		},
	}
}
