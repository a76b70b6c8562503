package paging

import (
	"strconv"
	"strings"
)

// Frame holds one resident page and the metadata the policies rank it by
type Frame struct {
	Page           uint64
	InsertionOrder uint64 // admission stamp, strictly increasing per run
	LastAccess     int    // stream index of the latest reference
	AccessCount    int    // references while resident
	Referenced     bool   // second-chance bit used by Clock
}

// FrameTable is a bounded set of resident pages. Slots fill in order and are
// overwritten in place on replacement. Not safe for concurrent use; every run
// owns its own table.
type FrameTable struct {
	frames   []Frame
	capacity int
}

// NewFrameTable creates an empty frame table. Callers guarantee capacity >= 1.
func NewFrameTable(capacity int) *FrameTable {
	return &FrameTable{
		frames:   make([]Frame, 0, capacity),
		capacity: capacity,
	}
}

// Lookup returns the slot holding page, or false if it is not resident
func (t *FrameTable) Lookup(page uint64) (int, bool) {
	for i := range t.frames {
		if t.frames[i].Page == page {
			return i, true
		}
	}
	return -1, false
}

// IsFull reports whether every slot is occupied
func (t *FrameTable) IsFull() bool {
	return len(t.frames) == t.capacity
}

// Len returns the number of resident pages
func (t *FrameTable) Len() int {
	return len(t.frames)
}

// Capacity returns the frame count
func (t *FrameTable) Capacity() int {
	return t.capacity
}

// Frame returns a copy of the frame in slot i
func (t *FrameTable) Frame(i int) Frame {
	return t.frames[i]
}

// Admit places page into the next free slot and returns the slot index
func (t *FrameTable) Admit(page uint64, index int, stamp uint64) int {
	t.frames = append(t.frames, newFrame(page, index, stamp))
	return len(t.frames) - 1
}

// Touch records a hit on slot i
func (t *FrameTable) Touch(i, index int) {
	f := &t.frames[i]
	f.AccessCount++
	f.LastAccess = index
	f.Referenced = true
}

// Replace overwrites slot i with a freshly admitted page
func (t *FrameTable) Replace(i int, page uint64, index int, stamp uint64) {
	t.frames[i] = newFrame(page, index, stamp)
}

// ClearReferenced drops the second-chance bit of slot i
func (t *FrameTable) ClearReferenced(i int) {
	t.frames[i].Referenced = false
}

func newFrame(page uint64, index int, stamp uint64) Frame {
	return Frame{
		Page:           page,
		InsertionOrder: stamp,
		LastAccess:     index,
		AccessCount:    1,
		Referenced:     true,
	}
}

// Snapshot captures slot contents in slot order; unused slots are reported
// separately from resident pages.
func (t *FrameTable) Snapshot() Snapshot {
	slots := make([]Slot, t.capacity)
	for i := range t.frames {
		slots[i] = Slot{Page: t.frames[i].Page, Used: true}
	}
	return Snapshot{Slots: slots}
}

// Slot is one frame position in a snapshot
type Slot struct {
	Page uint64
	Used bool
}

// Snapshot is an ordered view of the frame table at one step
type Snapshot struct {
	Slots []Slot
}

// Pages returns the resident pages in slot order
func (s Snapshot) Pages() []uint64 {
	pages := make([]uint64, 0, len(s.Slots))
	for _, slot := range s.Slots {
		if slot.Used {
			pages = append(pages, slot.Page)
		}
	}
	return pages
}

// String renders resident pages and "#" for unused slots, e.g. "1 2 # #"
func (s Snapshot) String() string {
	var b strings.Builder
	for i, slot := range s.Slots {
		if i > 0 {
			b.WriteByte(' ')
		}
		if slot.Used {
			b.WriteString(strconv.FormatUint(slot.Page, 10))
		} else {
			b.WriteByte('#')
		}
	}
	return b.String()
}
