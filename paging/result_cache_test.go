package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultKeyDistinguishesRuns(t *testing.T) {
	stream := NewPageStream(beladyString)
	other := NewPageStream(silberschatzString)

	base := resultKey(stream, FIFO, 3)
	assert.Equal(t, base, resultKey(NewPageStream(beladyString), FIFO, 3))
	assert.NotEqual(t, base, resultKey(stream, LRU, 3))
	assert.NotEqual(t, base, resultKey(stream, FIFO, 4))
	assert.NotEqual(t, base, resultKey(other, FIFO, 3))
}

func TestResultCacheMiss(t *testing.T) {
	cache, err := NewResultCache(0)
	require.NoError(t, err)
	defer cache.Close()

	_, ok := cache.Get(NewPageStream(beladyString), FIFO, 3)
	assert.False(t, ok)
}

func TestResultCacheSkipsTracedResults(t *testing.T) {
	cache, err := NewResultCache(8)
	require.NoError(t, err)
	defer cache.Close()

	stream := NewPageStream(beladyString)
	traced, err := Run(stream, RunConfig{Policy: FIFO, Frames: 3, Trace: true})
	require.NoError(t, err)

	cache.Put(stream, traced)
	_, ok := cache.Get(stream, FIFO, 3)
	assert.False(t, ok)
}

func TestResultCacheHitReturnsSameResult(t *testing.T) {
	cache, err := NewResultCache(8)
	require.NoError(t, err)
	defer cache.Close()

	stream := NewPageStream(beladyString)
	result := mustRun(t, stream, Optimal, 3)
	cache.Put(stream, result)

	cached, ok := cache.Get(stream, Optimal, 3)
	require.True(t, ok)
	assert.Same(t, result, cached)
	assert.Equal(t, 7, cached.Faults)
}

func TestResultCacheHoldsRequestedEntries(t *testing.T) {
	cache, err := NewResultCache(1024)
	require.NoError(t, err)
	defer cache.Close()

	stream := NewPageStream(silberschatzString)
	for frames := 1; frames <= 200; frames++ {
		cache.Put(stream, mustRun(t, stream, FIFO, frames))
	}

	held := 0
	for frames := 1; frames <= 200; frames++ {
		if cached, ok := cache.Get(stream, FIFO, frames); ok {
			assert.Equal(t, frames, cached.Frames)
			held++
		}
	}
	assert.Equal(t, 200, held)
}
