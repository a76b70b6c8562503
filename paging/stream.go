package paging

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// NoFutureUse marks a reference whose page never recurs later in the stream
const NoFutureUse = -1

// ReferenceStream is an immutable, fully materialized sequence of addresses
// split into pages by a fixed page size. It is safe to share between
// concurrent runs.
type ReferenceStream struct {
	addresses []uint64
	pages     []uint64
	pageSize  uint64

	// nextUse[i] is the next index after i referencing pages[i], or NoFutureUse
	nextUse []int

	distinct    int
	fingerprint uint64
}

// NewReferenceStream builds a stream from raw addresses. The slice is copied.
func NewReferenceStream(addresses []uint64, pageSize uint64) (*ReferenceStream, error) {
	if pageSize == 0 {
		return nil, ErrInvalidPageSize("NewReferenceStream", pageSize)
	}

	s := &ReferenceStream{
		addresses: make([]uint64, len(addresses)),
		pages:     make([]uint64, len(addresses)),
		pageSize:  pageSize,
	}
	copy(s.addresses, addresses)
	for i, addr := range s.addresses {
		s.pages[i] = addr / pageSize
	}

	s.buildNextUse()
	s.fingerprint = s.computeFingerprint()
	return s, nil
}

// NewPageStream builds a stream whose entries already are page numbers (page size 1)
func NewPageStream(pages []uint64) *ReferenceStream {
	s, _ := NewReferenceStream(pages, 1)
	return s
}

// buildNextUse walks the stream backwards once so Optimal can look ahead in
// O(1) per resident frame instead of rescanning the remaining stream.
func (s *ReferenceStream) buildNextUse() {
	s.nextUse = make([]int, len(s.pages))
	seen := make(map[uint64]int, len(s.pages))
	for i := len(s.pages) - 1; i >= 0; i-- {
		page := s.pages[i]
		if next, ok := seen[page]; ok {
			s.nextUse[i] = next
		} else {
			s.nextUse[i] = NoFutureUse
		}
		seen[page] = i
	}
	s.distinct = len(seen)
}

func (s *ReferenceStream) computeFingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], s.pageSize)
	d.Write(buf[:])
	for _, addr := range s.addresses {
		binary.LittleEndian.PutUint64(buf[:], addr)
		d.Write(buf[:])
	}
	return d.Sum64()
}

// Len returns the number of references
func (s *ReferenceStream) Len() int {
	return len(s.addresses)
}

// PageSize returns the divisor used to split addresses into pages
func (s *ReferenceStream) PageSize() uint64 {
	return s.pageSize
}

// Address returns the raw address at index i
func (s *ReferenceStream) Address(i int) uint64 {
	return s.addresses[i]
}

// Page returns the page number referenced at index i
func (s *ReferenceStream) Page(i int) uint64 {
	return s.pages[i]
}

// Offset returns the in-page offset of the address at index i
func (s *ReferenceStream) Offset(i int) uint64 {
	return s.addresses[i] % s.pageSize
}

// NextUse returns the next index after i that references the same page,
// or NoFutureUse if the page is never referenced again.
func (s *ReferenceStream) NextUse(i int) int {
	return s.nextUse[i]
}

// Pages returns a copy of the page numbers in reference order
func (s *ReferenceStream) Pages() []uint64 {
	out := make([]uint64, len(s.pages))
	copy(out, s.pages)
	return out
}

// DistinctPages returns the number of different pages referenced
func (s *ReferenceStream) DistinctPages() int {
	return s.distinct
}

// Fingerprint identifies the stream contents and page size
func (s *ReferenceStream) Fingerprint() uint64 {
	return s.fingerprint
}
