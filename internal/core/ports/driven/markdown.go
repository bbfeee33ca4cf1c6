package driven

// MarkdownRenderer converts markdown to HTML.
// Render never fails; malformed input renders best-effort.
type MarkdownRenderer interface {
	Render(markdown string) string
}
