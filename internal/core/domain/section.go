package domain

import (
	"sort"
	"time"
)

// SectionSet is the ordered section list of one document.
// After construction or Normalize the order indexes are exactly 0..N-1.
type SectionSet []*Section

// NewSectionSet builds a fresh section list from caller input.
// Entries whose heading and body are both blank are skipped before indexes
// are assigned.
func NewSectionSet(documentID string, inputs []SectionInput, now time.Time, newID func() string) SectionSet {
	set := make(SectionSet, 0, len(inputs))
	for _, in := range inputs {
		if in.IsBlank() {
			continue
		}
		set = append(set, &Section{
			ID:         newID(),
			DocumentID: documentID,
			OrderIndex: len(set),
			Heading:    in.Heading,
			ContentMD:  in.ContentMD,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return set
}

// Normalize sorts by order index and renumbers from zero.
func (s SectionSet) Normalize() SectionSet {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].OrderIndex < s[j].OrderIndex
	})
	for i, sec := range s {
		sec.OrderIndex = i
	}
	return s
}

// Contiguous reports whether the order indexes are 0..N-1 in slice order.
func (s SectionSet) Contiguous() bool {
	for i, sec := range s {
		if sec.OrderIndex != i {
			return false
		}
	}
	return true
}

// Inputs converts the set back into caller input pairs.
func (s SectionSet) Inputs() []SectionInput {
	out := make([]SectionInput, len(s))
	for i, sec := range s {
		out[i] = SectionInput{Heading: sec.Heading, ContentMD: sec.ContentMD}
	}
	return out
}
