// Package bloom provides probabilistic deduplication of asset URLs.
// Fragments of the same manual reference the same images and fonts over and
// over; a Bloom filter keeps the attempt set small at the cost of rarely
// skipping a download attempt. Callers must not treat a positive as proof of
// a prior download.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter for URL deduplication.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given false
// positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// AddIfNew records the URL and reports whether it was new.
// False positives are possible; false negatives are not.
func (f *Filter) AddIfNew(url string) bool {
	if f.f.TestString(url) {
		return false
	}
	f.f.AddString(url)
	return true
}

// EstimatedCount returns the approximate number of URLs recorded.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
