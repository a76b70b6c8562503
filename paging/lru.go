package paging

// lruPolicy evicts the page whose latest reference is oldest in stream time.
// Recency is the stream index of the last access, not the access count; the
// count-based rule is available separately as LFU.
type lruPolicy struct{}

func (lruPolicy) Kind() PolicyKind { return LRU }

func (lruPolicy) Victim(table *FrameTable, _ int) int {
	victim := 0
	for i := 1; i < table.Len(); i++ {
		if table.frames[i].LastAccess < table.frames[victim].LastAccess {
			victim = i
		}
	}
	return victim
}

// lfuPolicy evicts the page with the fewest references since admission
type lfuPolicy struct{}

func (lfuPolicy) Kind() PolicyKind { return LFU }

func (lfuPolicy) Victim(table *FrameTable, _ int) int {
	victim := 0
	for i := 1; i < table.Len(); i++ {
		if table.frames[i].AccessCount < table.frames[victim].AccessCount {
			victim = i
		}
	}
	return victim
}
