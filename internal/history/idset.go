package history

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeID trims surrounding whitespace and NFC-normalises an id.
//
// It is applied to archive records when they are imported. Ids read back from
// storage are opaque and must never be passed through it.
func NormalizeID(id string) string {
	return norm.NFC.String(strings.TrimSpace(id))
}

// IDSet is an insertion-ordered set of ids compared byte for byte.
//
// Ids are kept exactly as given, so a set built from ids returned by the
// store addresses the same rows. Iteration order is the order ids were first added, which keeps bulk
// statements and traces deterministic.
type IDSet struct {
	ids   []string
	index map[string]struct{}
}

// NewIDSet builds a set from ids, dropping empty and duplicate entries.
func NewIDSet(ids ...string) *IDSet {
	s := &IDSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was not already present.
func (s *IDSet) Add(id string) bool {
	if id == "" {
		return false
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Contains reports whether id is in the set.
func (s *IDSet) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of ids.
func (s *IDSet) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether the set has no ids.
func (s *IDSet) IsEmpty() bool {
	return len(s.ids) == 0
}

// Slice returns a copy of the ids in insertion order.
// Returns an empty slice (not nil) for an empty set.
func (s *IDSet) Slice() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Chunks splits the ids into consecutive slices of at most size elements.
// A size <= 0 yields a single chunk.
func (s *IDSet) Chunks(size int) [][]string {
	return Chunk(s.ids, size)
}

// Chunk splits ids into consecutive slices of at most size elements.
// A size <= 0 yields a single chunk. Returns nil for empty input.
func Chunk(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	if size <= 0 || size >= len(ids) {
		return [][]string{ids}
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
