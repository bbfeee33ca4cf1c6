package markdown

import (
	"strings"
	"testing"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "paragraph",
			input:    "hello world",
			contains: []string{"<p>hello world</p>"},
		},
		{
			name:     "emphasis",
			input:    "some **bold** and _italic_",
			contains: []string{"<strong>bold</strong>", "<em>italic</em>"},
		},
		{
			name:     "heading gets an id",
			input:    "## Early Life",
			contains: []string{`<h2 id="early-life">Early Life</h2>`},
		},
		{
			name:     "gfm table",
			input:    "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "strikethrough",
			input:    "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:     "raw html is dropped",
			input:    "<script>alert(1)</script>\n\ntext",
			contains: []string{"<p>text</p>"},
			excludes: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected %q in output, got %q", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("did not expect %q in output, got %q", bad, got)
				}
			}
		})
	}
}

func TestRenderer_EmptyInputRendersNothing(t *testing.T) {
	if got := NewRenderer().Render(""); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
