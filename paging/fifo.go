package paging

// fifoPolicy evicts the page admitted earliest
type fifoPolicy struct{}

func (fifoPolicy) Kind() PolicyKind { return FIFO }

func (fifoPolicy) Victim(table *FrameTable, _ int) int {
	oldest := 0
	for i := 1; i < table.Len(); i++ {
		if table.frames[i].InsertionOrder < table.frames[oldest].InsertionOrder {
			oldest = i
		}
	}
	return oldest
}
