package histo

import (
	"math"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// spinLoopLimit bounds how many times collect spins re-reading a shard
// before parking. Declared as a var, not a const, so tests can drive it to
// 1 and force the park path deterministically instead of relying on timing.
var spinLoopLimit = 10

const (
	waitingFlag uint64 = 1 << 63
	countMask   uint64 = ^waitingFlag
)

// countersPerLine is how many atomic.Uint64 words share a cache line on a
// typical 64-byte-line machine. Counter groups are padded to a full line so
// that two shards' hot counters never false-share, mirroring the aligned
// Counters layout the split-histogram design uses under cache-padding.
const countersPerLine = 8

type counterGroup struct {
	counters [countersPerLine]atomic.Uint64
	_        cpu.CacheLinePad
}

// shard holds one generation's counters for a histogram: a combined
// count/waiting-flag word, a sum word, and one word per bucket. Counters
// for count and sum always live in the group's first two slots so both
// shards' hot words are reliably far apart in memory.
type shard struct {
	groups  []counterGroup
	isFloat bool
	waker   waker
}

func newShard(bucketCount int, isFloat bool) *shard {
	n := (bucketCount + 2 + countersPerLine - 1) / countersPerLine
	return &shard{groups: make([]counterGroup, n), isFloat: isFloat}
}

func (s *shard) word(i int) *atomic.Uint64 {
	return &s.groups[i/countersPerLine].counters[i%countersPerLine]
}

func (s *shard) count() *atomic.Uint64  { return s.word(0) }
func (s *shard) sum() *atomic.Uint64    { return s.word(1) }
func (s *shard) bucket(i int) *atomic.Uint64 { return s.word(i + 2) }

// observe records one value already converted to its raw bit pattern in
// bucket bucketIndex. It never blocks: incrementing count last publishes
// the observation to a concurrent collector, which is why bucket and sum
// are written first.
func (s *shard) observe(bucketIndex int, bits uint64) {
	s.bucket(bucketIndex).Add(1)
	if s.isFloat {
		casAddBits(s.sum(), bits)
	} else {
		s.sum().Add(bits)
	}
	newCount := s.count().Add(1)
	if (newCount-1)&waitingFlag != 0 {
		s.waker.wake()
	}
}

func casAddBits(word *atomic.Uint64, addendBits uint64) {
	addend := math.Float64frombits(addendBits)
	for {
		old := word.Load()
		sum := math.Float64bits(math.Float64frombits(old) + addend)
		if word.CompareAndSwap(old, sum) {
			return
		}
	}
}

// readBuckets loads every bucket counter into dst and returns their sum,
// which collect compares against the count word to detect a straggling
// writer that hasn't finished its bucket increment yet.
func (s *shard) readBuckets(dst []uint64) uint64 {
	var total uint64
	for i := range dst {
		n := s.bucket(i).Load()
		dst[i] = n
		total += n
	}
	return total
}

// collect drains a shard's counters into a consistent (count, sum, buckets)
// snapshot. It first spins, re-reading count and the bucket total until
// they agree; most collects settle within one or two iterations since a
// writer only straddles the read for the few instructions between its
// bucket and count increments. If no iteration agrees within
// spinLoopLimit tries, it registers a waker and parks until a straggling
// writer wakes it.
func (s *shard) collect(bucketCount int) (count uint64, sumBits uint64, buckets []uint64) {
	buckets = make([]uint64, bucketCount)
	for i := 0; i < spinLoopLimit; i++ {
		observed := s.count().Load() &^ waitingFlag
		sumBits = s.sum().Load()
		expected := s.readBuckets(buckets)
		if observed == expected {
			return observed, sumBits, buckets
		}
	}
	return s.collectCold(buckets)
}

func (s *shard) collectCold(buckets []uint64) (count uint64, sumBits uint64, out []uint64) {
	for {
		ch := s.waker.register()
		observed := fetchOr(s.count(), waitingFlag) &^ waitingFlag
		sumBits = s.sum().Load()
		expected := s.readBuckets(buckets)
		if observed == expected {
			prev := fetchAnd(s.count(), countMask)
			if prev&waitingFlag != 0 {
				s.waker.take()
			}
			return observed, sumBits, buckets
		}
		<-ch
	}
}

func fetchOr(word *atomic.Uint64, bit uint64) uint64 {
	for {
		old := word.Load()
		if old&bit != 0 {
			return old
		}
		if word.CompareAndSwap(old, old|bit) {
			return old
		}
	}
}

func fetchAnd(word *atomic.Uint64, mask uint64) uint64 {
	for {
		old := word.Load()
		if word.CompareAndSwap(old, old&mask) {
			return old
		}
	}
}
