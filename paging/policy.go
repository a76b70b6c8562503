package paging

import "strings"

// PolicyKind names a page replacement policy
type PolicyKind int

const (
	FIFO PolicyKind = iota
	LRU
	Optimal
	LFU
	Clock
)

// DefaultPolicies are the three policies reported by default
var DefaultPolicies = []PolicyKind{FIFO, LRU, Optimal}

// AllPolicies lists every supported policy
var AllPolicies = []PolicyKind{FIFO, LRU, Optimal, LFU, Clock}

func (k PolicyKind) String() string {
	switch k {
	case FIFO:
		return "fifo"
	case LRU:
		return "lru"
	case Optimal:
		return "optimal"
	case LFU:
		return "lfu"
	case Clock:
		return "clock"
	default:
		return "unknown"
	}
}

// StackAlgorithm reports whether the policy has the inclusion property,
// i.e. more frames never produce more faults.
func (k PolicyKind) StackAlgorithm() bool {
	return k == LRU || k == Optimal
}

// ParsePolicy resolves a policy name. "opt" and "belady" are accepted for Optimal.
func ParsePolicy(name string) (PolicyKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fifo":
		return FIFO, nil
	case "lru":
		return LRU, nil
	case "optimal", "opt", "belady":
		return Optimal, nil
	case "lfu":
		return LFU, nil
	case "clock", "second-chance":
		return Clock, nil
	default:
		return 0, ErrUnknownPolicy("ParsePolicy", name)
	}
}

// ParsePolicies resolves a list of policy names
func ParsePolicies(names []string) ([]PolicyKind, error) {
	kinds := make([]PolicyKind, 0, len(names))
	for _, name := range names {
		k, err := ParsePolicy(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Policy chooses which resident frame to overwrite. Victim is only called on
// a fault when the table is full; pos is the stream index of the faulting
// reference. Ties go to the lowest slot index.
type Policy interface {
	Kind() PolicyKind
	Victim(table *FrameTable, pos int) int
}

// NewPolicy creates a policy instance for one run. Policies may carry
// per-run state (the Clock hand), so instances must not be shared.
func NewPolicy(kind PolicyKind, stream *ReferenceStream) (Policy, error) {
	switch kind {
	case FIFO:
		return fifoPolicy{}, nil
	case LRU:
		return lruPolicy{}, nil
	case Optimal:
		return &optimalPolicy{stream: stream}, nil
	case LFU:
		return lfuPolicy{}, nil
	case Clock:
		return &clockPolicy{}, nil
	default:
		return nil, ErrUnknownPolicy("NewPolicy", kind.String())
	}
}
