package run

import (
	"fmt"
	"strings"
)

// Script renders the run as a Markdown presenter script: one section per
// slide with its narration, and the source text as a quote.
func Script(r *Run) string {
	var sb strings.Builder

	title := r.Title
	if title == "" {
		title = "Untitled deck"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	meta := "Style: " + r.Style
	if r.Level != nil {
		meta += " · Level: " + *r.Level
	}
	fmt.Fprintf(&sb, "_%s_\n\n", meta)

	for _, s := range r.Slides {
		fmt.Fprintf(&sb, "## Slide %d\n\n", s.SlideNumber)
		if src := strings.TrimSpace(s.Text); src != "" && s.Outcome == "success" {
			for _, line := range strings.Split(src, "\n") {
				fmt.Fprintf(&sb, "> %s\n", line)
			}
			sb.WriteString("\n")
		}
		if n := strings.TrimSpace(s.Narration); n != "" {
			sb.WriteString(n)
			sb.WriteString("\n\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}
