package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Revision is an immutable, numbered snapshot of a document taken after an update.
// Versions of one document form the contiguous run 1..K.
type Revision struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id"`
	Version      int       `json:"version"`
	SnapshotJSON string    `json:"snapshot_json"`
	Editor       string    `json:"editor"`
	CreatedAt    time.Time `json:"created_at"`
}

// RevisionDetail pairs a revision with its decoded snapshot.
type RevisionDetail struct {
	Revision *Revision `json:"revision"`
	Snapshot *Snapshot `json:"snapshot"`
}

// Snapshot is the serialized document state stored with a revision.
type Snapshot struct {
	Title    string            `json:"title"`
	Summary  string            `json:"summary"`
	Sections []SnapshotSection `json:"sections"`
}

// SnapshotSection is one section inside a snapshot.
type SnapshotSection struct {
	Heading   string `json:"heading"`
	ContentMD string `json:"contentMd"`
}

// NewSnapshot captures the document title, summary and the given ordered sections.
func NewSnapshot(doc *Document, sections SectionSet) *Snapshot {
	snap := &Snapshot{
		Title:    doc.Title,
		Summary:  doc.Summary,
		Sections: make([]SnapshotSection, len(sections)),
	}
	for i, s := range sections {
		snap.Sections[i] = SnapshotSection{Heading: s.Heading, ContentMD: s.ContentMD}
	}
	return snap
}

// Encode serializes the snapshot.
func (s *Snapshot) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(data), nil
}

// DecodeSnapshot parses a stored snapshot.
func DecodeSnapshot(raw string) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

// NextVersion returns one past the highest version in revisions, or 1 when empty.
func NextVersion(revisions []*Revision) int {
	highest := 0
	for _, r := range revisions {
		if r.Version > highest {
			highest = r.Version
		}
	}
	return highest + 1
}
