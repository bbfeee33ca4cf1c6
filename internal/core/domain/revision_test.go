package domain

import (
	"strings"
	"testing"
)

func TestNextVersion(t *testing.T) {
	tests := []struct {
		name      string
		revisions []*Revision
		want      int
	}{
		{"none", nil, 1},
		{"one", []*Revision{{Version: 1}}, 2},
		{"newest first", []*Revision{{Version: 3}, {Version: 2}, {Version: 1}}, 4},
		{"unordered", []*Revision{{Version: 2}, {Version: 5}, {Version: 1}}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextVersion(tt.revisions); got != tt.want {
				t.Errorf("NextVersion() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSnapshotEncode(t *testing.T) {
	doc := &Document{Title: "Ragnar", Summary: "A legendary king"}
	sections := SectionSet{
		{Heading: "Early life", ContentMD: "Born *somewhere*."},
		{Heading: "Raids", ContentMD: "Paris, 845."},
	}

	raw, err := NewSnapshot(doc, sections).Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	for _, want := range []string{`"title":"Ragnar"`, `"summary":"A legendary king"`, `"contentMd":"Paris, 845."`} {
		if !strings.Contains(raw, want) {
			t.Errorf("expected snapshot to contain %s, got %s", want, raw)
		}
	}

	snap, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if len(snap.Sections) != 2 || snap.Sections[0].Heading != "Early life" {
		t.Errorf("unexpected decoded sections: %+v", snap.Sections)
	}
}

func TestSnapshotEmptySectionsEncodeAsArray(t *testing.T) {
	raw, err := NewSnapshot(&Document{Title: "Empty"}, nil).Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(raw, `"sections":[]`) {
		t.Errorf("expected empty sections array, got %s", raw)
	}
}

func TestDecodeSnapshotInvalid(t *testing.T) {
	if _, err := DecodeSnapshot("{not json"); err == nil {
		t.Error("expected error for malformed snapshot")
	}
}
