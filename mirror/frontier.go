package mirror

import (
	"container/heap"
	"sync"

	"github.com/venky7799/aemsearch"
	"github.com/venky7799/aemsearch/bloom"
)

// entry is a queued path and its depth below the walk root.
type entry struct {
	path  string
	depth int
}

// Frontier is an in-memory queue of repository paths with Bloom filter
// deduplication. Shallower paths are popped first, ties in path order, so a
// capped walk keeps the top of the tree. It is safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *entryHeap
}

// NewFrontier creates a new Frontier sized for n expected paths
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &entryHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push queues path at depth. It returns false if the path was already
// seen. Paths are cleaned before deduplication.
func (f *Frontier) Push(path string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	path = aemsearch.JoinPath(path)
	if f.seen.TestAndAdd(path) {
		return false
	}
	heap.Push(f.queue, entry{path: path, depth: depth})
	return true
}

// Pop returns the shallowest queued path.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return "", 0, false
	}
	e, _ := heap.Pop(f.queue).(entry)
	return e.path, e.depth, true
}

// Len returns the number of queued paths.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the path has been queued.
func (f *Frontier) Seen(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(aemsearch.JoinPath(path))
}

// entryHeap implements heap.Interface as a min-heap on depth.
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].depth != h[j].depth {
		return h[i].depth < h[j].depth
	}
	return h[i].path < h[j].path
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	e, _ := x.(entry)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
