package paging

// clockPolicy is the second-chance variant of FIFO. The hand walks the slots
// circularly; a set reference bit buys the page one more pass and is
// cleared, the first page found with a clear bit is evicted.
type clockPolicy struct {
	hand int
}

func (p *clockPolicy) Kind() PolicyKind { return Clock }

func (p *clockPolicy) Victim(table *FrameTable, _ int) int {
	n := table.Len()
	// at most one full pass clears every bit, so the loop ends within 2n steps
	for {
		i := p.hand
		p.hand = (p.hand + 1) % n
		if !table.frames[i].Referenced {
			return i
		}
		table.ClearReferenced(i)
	}
}
