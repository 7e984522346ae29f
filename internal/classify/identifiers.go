package classify

import (
	"slices"
	"strings"
)

// IdentifierSet holds unique identifier texts in first-seen order.
type IdentifierSet struct {
	order []string
	index map[string]int
}

func NewIdentifierSet() *IdentifierSet {
	return &IdentifierSet{index: make(map[string]int)}
}

// Add appends v unless it is already present. It reports whether v was new.
func (s *IdentifierSet) Add(v string) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = len(s.order)
	s.order = append(s.order, v)
	return true
}

func (s *IdentifierSet) Contains(v string) bool {
	_, ok := s.index[v]
	return ok
}

func (s *IdentifierSet) Len() int { return len(s.order) }

// Values returns a copy of the identifiers in first-seen order.
func (s *IdentifierSet) Values() []string {
	return slices.Clone(s.order)
}

// SubstitutionOrder returns the identifiers sorted by length descending,
// then by value descending.
func (s *IdentifierSet) SubstitutionOrder() []string {
	out := slices.Clone(s.order)
	slices.SortStableFunc(out, CompareSubstitution)
	return out
}

// CompareSubstitution orders a before b when a is longer, or when both have
// the same length and a sorts after b.
func CompareSubstitution(a, b string) int {
	if len(a) != len(b) {
		return len(b) - len(a)
	}
	return strings.Compare(b, a)
}
