package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTableAdmitAndLookup(t *testing.T) {
	table := NewFrameTable(3)

	assert.Equal(t, 3, table.Capacity())
	assert.Equal(t, 0, table.Len())
	assert.False(t, table.IsFull())

	_, ok := table.Lookup(7)
	assert.False(t, ok)

	assert.Equal(t, 0, table.Admit(7, 0, 0))
	assert.Equal(t, 1, table.Admit(8, 1, 1))
	assert.Equal(t, 2, table.Admit(9, 2, 2))
	assert.True(t, table.IsFull())

	slot, ok := table.Lookup(8)
	require.True(t, ok)
	assert.Equal(t, 1, slot)

	f := table.Frame(2)
	assert.Equal(t, uint64(9), f.Page)
	assert.Equal(t, uint64(2), f.InsertionOrder)
	assert.Equal(t, 2, f.LastAccess)
	assert.Equal(t, 1, f.AccessCount)
	assert.True(t, f.Referenced)
}

func TestFrameTableTouchUpdatesMetadataOnly(t *testing.T) {
	table := NewFrameTable(2)
	table.Admit(4, 0, 0)
	table.Admit(5, 1, 1)
	table.ClearReferenced(0)

	before := table.Snapshot().String()
	table.Touch(0, 6)

	f := table.Frame(0)
	assert.Equal(t, 2, f.AccessCount)
	assert.Equal(t, 6, f.LastAccess)
	assert.Equal(t, uint64(0), f.InsertionOrder, "a hit never changes admission order")
	assert.True(t, f.Referenced)
	assert.Equal(t, before, table.Snapshot().String())
}

func TestFrameTableReplace(t *testing.T) {
	table := NewFrameTable(2)
	table.Admit(4, 0, 0)
	table.Admit(5, 1, 1)
	table.Touch(0, 2)

	table.Replace(0, 6, 3, 2)

	_, ok := table.Lookup(4)
	assert.False(t, ok)
	f := table.Frame(0)
	assert.Equal(t, Frame{Page: 6, InsertionOrder: 2, LastAccess: 3, AccessCount: 1, Referenced: true}, f)
	assert.Equal(t, 2, table.Len())
}

func TestSnapshotString(t *testing.T) {
	table := NewFrameTable(4)
	assert.Equal(t, "# # # #", table.Snapshot().String())

	table.Admit(1, 0, 0)
	table.Admit(2, 1, 1)
	snap := table.Snapshot()

	assert.Equal(t, "1 2 # #", snap.String())
	assert.Equal(t, []uint64{1, 2}, snap.Pages())
	assert.Len(t, snap.Slots, 4)
	assert.False(t, snap.Slots[3].Used)
}

func TestSnapshotIsDetached(t *testing.T) {
	table := NewFrameTable(1)
	table.Admit(1, 0, 0)
	snap := table.Snapshot()

	table.Replace(0, 2, 1, 1)

	assert.Equal(t, "1", snap.String())
	assert.Equal(t, "2", table.Snapshot().String())
}
