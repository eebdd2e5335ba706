package histo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardObserveAndCollect(t *testing.T) {
	s := newShard(3, false)
	s.observe(0, toBits(uint64(1)))
	s.observe(1, toBits(uint64(1)))
	s.observe(1, toBits(uint64(1)))

	count, sumBits, buckets := s.collect(3)
	require.Len(t, buckets, 3)
	assert.Equal(t, uint64(3), count)
	assert.Equal(t, uint64(3), bitsToValue[uint64](sumBits))
	assert.Equal(t, []uint64{1, 2, 0}, buckets)
}

func TestShardCollectWithLowSpinLimitAndNoStragglers(t *testing.T) {
	old := spinLoopLimit
	spinLoopLimit = 1
	defer func() { spinLoopLimit = old }()

	s := newShard(2, false)
	s.observe(0, toBits(uint64(5)))

	count, _, buckets := s.collect(2)
	assert.Equal(t, uint64(1), count)
	assert.Equal(t, []uint64{1, 0}, buckets)
}

func TestShardWakesParkedCollector(t *testing.T) {
	old := spinLoopLimit
	spinLoopLimit = 1
	defer func() { spinLoopLimit = old }()

	s := newShard(1, false)

	// Simulate a straggler: increment the bucket first, leave sum and
	// count uncommitted momentarily, and let collect's spin notice the
	// mismatch, park in collectCold, then get woken once the straggler
	// finishes.
	done := make(chan struct{})
	s.bucket(0).Add(1)
	go func() {
		<-done
		s.sum().Add(toBits(uint64(7)))
		newCount := s.count().Add(1)
		if (newCount-1)&waitingFlag != 0 {
			s.waker.wake()
		}
	}()

	resultCh := make(chan struct{})
	var count uint64
	var sumBits uint64
	go func() {
		count, sumBits, _ = s.collect(1)
		close(resultCh)
	}()

	close(done)
	<-resultCh
	assert.Equal(t, uint64(1), count)
	assert.Equal(t, uint64(7), bitsToValue[uint64](sumBits))
}
