package paging

// optimalPolicy implements Belady's algorithm: evict the resident page whose
// next reference lies furthest in the future.
type optimalPolicy struct {
	stream *ReferenceStream
}

func (p *optimalPolicy) Kind() PolicyKind { return Optimal }

// Victim consults the stream's precomputed next-use table. A resident page's
// next reference after pos is the next use after its last access, because
// any reference in between would have moved LastAccess forward.
func (p *optimalPolicy) Victim(table *FrameTable, pos int) int {
	victim := 0
	furthest := -1
	for i := 0; i < table.Len(); i++ {
		next := p.stream.NextUse(table.frames[i].LastAccess)
		if next == NoFutureUse {
			// never faults again, nothing can beat it
			return i
		}
		if next-pos > furthest {
			furthest = next - pos
			victim = i
		}
	}
	return victim
}
