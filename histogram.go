package histo

import (
	"sync"
	"sync/atomic"
)

// BucketCount pairs a bucket's upper bound with the number of observations
// recorded in that bucket. The counts returned by Collect are per-bucket,
// not cumulative; cumulative totals are a presentation concern left to the
// exposition adapter.
type BucketCount[V Value] struct {
	Bound V
	Count uint64
}

// Histogram is a wait-free-to-observe, generationally-swapped histogram
// metric. Observe never blocks. Collect blocks only the single goroutine
// calling it, and only while draining a shard a writer is actively
// straddling.
type Histogram[V Value] struct {
	bounds      []V
	nanSlot     bool
	bucketCount int
	isFloat     bool

	hotIndex  atomic.Uint32
	shards    [2]*shard
	collectMu sync.Mutex
}

// New builds a Histogram over the given bucket upper bounds, which must be
// supplied in strictly ascending order and must not contain NaN. An
// implicit +Inf bucket is always added; float histograms additionally get
// an implicit NaN bucket, since a NaN observation compares false against
// every bound and so cannot be routed by comparison alone.
func New[V Value](bounds ...V) *Histogram[V] {
	isFloat := isFloatValue[V]()
	boundsCopy := append([]V(nil), bounds...)
	validateBounds(boundsCopy)

	bucketCount := len(boundsCopy) + 1
	if isFloat {
		bucketCount++
	}

	h := &Histogram[V]{
		bounds:      boundsCopy,
		nanSlot:     isFloat,
		bucketCount: bucketCount,
		isFloat:     isFloat,
	}
	h.shards[0] = newShard(bucketCount, isFloat)
	h.shards[1] = newShard(bucketCount, isFloat)
	return h
}

func validateBounds[V Value](bounds []V) {
	for _, b := range bounds {
		if isNaN(b) {
			panic("histo: bucket boundary must not be NaN")
		}
	}
	for i := 1; i < len(bounds); i++ {
		if !(bounds[i-1] < bounds[i]) {
			panic("histo: bucket boundaries must be strictly ascending")
		}
	}
}

// Observe records v in the bucket its value falls into. Safe for
// concurrent use by any number of goroutines, including concurrently with
// Collect.
func (h *Histogram[V]) Observe(v V) {
	idx := h.bucketIndex(v)
	hot := h.hotIndex.Load()
	h.shards[hot].observe(idx, toBits(v))
}

func (h *Histogram[V]) bucketIndex(v V) int {
	if h.nanSlot && isNaN(v) {
		return h.bucketCount - 1
	}
	for i, b := range h.bounds {
		if v <= b {
			return i
		}
	}
	return len(h.bounds)
}

// Collect returns the total observation count, the sum of all observed
// values, and the per-bucket counts. Only one Collect runs at a time; a
// second caller blocks on the first's mutex rather than racing it onto the
// same shard swap.
func (h *Histogram[V]) Collect() (count uint64, sum V, buckets []BucketCount[V]) {
	h.collectMu.Lock()
	defer h.collectMu.Unlock()

	hot := h.hotIndex.Load()
	cold := hot ^ 1

	coldCount, coldSumBits, coldBuckets := h.shards[cold].collect(h.bucketCount)
	h.hotIndex.Store(cold)
	hotCount, hotSumBits, hotBuckets := h.shards[hot].collect(h.bucketCount)

	total := coldCount + hotCount
	sumBits := mergeBits[V](coldSumBits, hotSumBits)

	pairs := make([]BucketCount[V], h.bucketCount)
	for i := range pairs {
		pairs[i] = BucketCount[V]{Bound: h.boundAt(i), Count: coldBuckets[i] + hotBuckets[i]}
	}
	return total, bitsToValue[V](sumBits), pairs
}

func (h *Histogram[V]) boundAt(i int) V {
	switch {
	case i < len(h.bounds):
		return h.bounds[i]
	case i == len(h.bounds):
		return infBound[V]()
	default:
		return nanValue[V]()
	}
}
