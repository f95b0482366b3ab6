package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Keys

| Key | Action |
| --- | --- |
| ↑/k ↓/j | move |
| enter / space | open a program, expand a subject or elective, preview a resource |
| ←/h →/l | previous / next semester |
| 1-8 | jump to a semester |
| y | copy the selected resource link |
| u | upload a resource |
| esc / b | back |
| ? | toggle this help |
| q / ctrl+c | quit |

Subjects load their resources the first time they are expanded. A subject
that failed to load is retried when it is collapsed and expanded again.
`

// renderHelp renders the key reference, falling back to the raw markdown if
// the renderer cannot be built.
func renderHelp(width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
