// Package bloom remembers which repository paths a walk has already queued,
// in constant memory.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter is a Bloom filter over repository paths. It may report a path as
// seen when it was not, never the reverse.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter sizes a filter for n paths at the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// TestAndAdd records path and reports whether it was possibly recorded
// before.
func (f *Filter) TestAndAdd(path string) bool {
	return f.f.TestAndAddString(path)
}

// Test reports whether path was possibly recorded.
func (f *Filter) Test(path string) bool {
	return f.f.TestString(path)
}
