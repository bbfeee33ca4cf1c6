package domain

import (
	"fmt"
	"testing"
	"time"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("sec-%d", n)
	}
}

func TestNewSectionSet(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	inputs := []SectionInput{
		{Heading: "Early life", ContentMD: "Born in *Scandinavia*."},
		{Heading: "", ContentMD: "   "},
		{Heading: "Raids", ContentMD: ""},
		{Heading: "", ContentMD: "Death in a snake pit."},
	}

	set := NewSectionSet("doc-1", inputs, now, sequentialIDs())

	if len(set) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(set))
	}
	if !set.Contiguous() {
		t.Fatal("expected contiguous order indexes")
	}

	wantHeadings := []string{"Early life", "Raids", ""}
	for i, s := range set {
		if s.OrderIndex != i {
			t.Errorf("section %d: expected OrderIndex %d, got %d", i, i, s.OrderIndex)
		}
		if s.Heading != wantHeadings[i] {
			t.Errorf("section %d: expected heading %q, got %q", i, wantHeadings[i], s.Heading)
		}
		if s.DocumentID != "doc-1" {
			t.Errorf("section %d: expected DocumentID doc-1, got %s", i, s.DocumentID)
		}
		if !s.CreatedAt.Equal(now) || !s.UpdatedAt.Equal(now) {
			t.Errorf("section %d: expected timestamps %v", i, now)
		}
	}
	if set[0].ID == set[1].ID {
		t.Error("expected distinct section IDs")
	}
}

func TestNewSectionSetEmpty(t *testing.T) {
	set := NewSectionSet("doc-1", nil, time.Now(), sequentialIDs())
	if len(set) != 0 {
		t.Errorf("expected empty set, got %d", len(set))
	}
	if !set.Contiguous() {
		t.Error("empty set is contiguous")
	}
}

func TestSectionSetNormalize(t *testing.T) {
	set := SectionSet{
		{ID: "c", OrderIndex: 7},
		{ID: "a", OrderIndex: 2},
		{ID: "b", OrderIndex: 5},
	}

	if set.Contiguous() {
		t.Fatal("expected gaps to be detected")
	}

	set = set.Normalize()

	wantIDs := []string{"a", "b", "c"}
	for i, s := range set {
		if s.ID != wantIDs[i] || s.OrderIndex != i {
			t.Errorf("position %d: got (%s, %d), want (%s, %d)", i, s.ID, s.OrderIndex, wantIDs[i], i)
		}
	}
	if !set.Contiguous() {
		t.Error("expected contiguous after Normalize")
	}
}

func TestSectionSetInputs(t *testing.T) {
	set := SectionSet{
		{Heading: "One", ContentMD: "1"},
		{Heading: "Two", ContentMD: "2"},
	}
	in := set.Inputs()
	if len(in) != 2 || in[1].Heading != "Two" || in[1].ContentMD != "2" {
		t.Errorf("unexpected inputs: %+v", in)
	}
}
