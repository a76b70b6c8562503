package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceStreamSplitsAddresses(t *testing.T) {
	stream, err := NewReferenceStream([]uint64{0, 99, 100, 250, 1234}, 100)
	require.NoError(t, err)

	assert.Equal(t, 5, stream.Len())
	assert.Equal(t, uint64(100), stream.PageSize())
	assert.Equal(t, []uint64{0, 0, 1, 2, 12}, stream.Pages())
	assert.Equal(t, uint64(50), stream.Offset(3))
	assert.Equal(t, uint64(1234), stream.Address(4))
	assert.Equal(t, 4, stream.DistinctPages())
}

func TestReferenceStreamRejectsZeroPageSize(t *testing.T) {
	_, err := NewReferenceStream([]uint64{1, 2}, 0)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrCodeInvalidConfiguration))
}

func TestReferenceStreamCopiesInput(t *testing.T) {
	addrs := []uint64{1, 2, 3}
	stream := NewPageStream(addrs)
	addrs[0] = 42

	assert.Equal(t, uint64(1), stream.Page(0))

	pages := stream.Pages()
	pages[1] = 42
	assert.Equal(t, uint64(2), stream.Page(1))
}

func TestReferenceStreamNextUse(t *testing.T) {
	stream := NewPageStream([]uint64{1, 2, 1, 3, 2, 1})

	expected := []int{2, 4, 5, NoFutureUse, NoFutureUse, NoFutureUse}
	for i, want := range expected {
		assert.Equal(t, want, stream.NextUse(i), "index %d", i)
	}
}

func TestReferenceStreamEmpty(t *testing.T) {
	stream := NewPageStream(nil)

	assert.Equal(t, 0, stream.Len())
	assert.Equal(t, 0, stream.DistinctPages())
	assert.Empty(t, stream.Pages())
}

func TestReferenceStreamFingerprint(t *testing.T) {
	a, err := NewReferenceStream([]uint64{100, 200, 300}, 100)
	require.NoError(t, err)
	b, err := NewReferenceStream([]uint64{100, 200, 300}, 100)
	require.NoError(t, err)
	c, err := NewReferenceStream([]uint64{100, 200, 300}, 10)
	require.NoError(t, err)
	d, err := NewReferenceStream([]uint64{100, 300, 200}, 100)
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint(), "page size is part of the identity")
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint(), "order is part of the identity")
}
