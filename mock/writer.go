package mock

import (
	"context"

	"github.com/venky7799/aemsearch"
)

var _ aemsearch.NodeWriter = (*NodeWriter)(nil)

// NodeWriter is a mock implementation of aemsearch.NodeWriter.
type NodeWriter struct {
	SaveNodesFn func(ctx context.Context, nodes []*aemsearch.Node) (int, error)
}

func (w *NodeWriter) SaveNodes(ctx context.Context, nodes []*aemsearch.Node) (int, error) {
	return w.SaveNodesFn(ctx, nodes)
}
