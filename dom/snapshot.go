package dom

import (
	"fmt"
	"strings"
)

// PageSnapshot is the full page state of one capture. It is created once
// per capture, immutable after construction, and handed to the rolling
// history store when the capture completes.
type PageSnapshot struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Tree  *Node  `json:"domTree"`

	// SelectorMap and InteractiveHashes alias nodes of Tree; they are
	// rebuilt per capture and excluded from serialization.
	SelectorMap       SelectorMap `json:"-"`
	InteractiveHashes HashSet     `json:"-"`

	Viewport *ViewportInfo `json:"viewportInfo,omitempty"`
}

// promptAttributes are the attributes worth echoing to the model.
var promptAttributes = []string{"id", "type", "name", "placeholder", "aria-label", "href"}

// PromptString renders the snapshot for model consumption: a page header
// plus one line per interactive element, ordered by highlight index. New
// elements are marked with a leading asterisk. maxElements > 0 truncates
// the listing.
func (s *PageSnapshot) PromptString(maxElements int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Page: %s\n", s.Title)
	fmt.Fprintf(&b, "URL: %s\n", s.URL)

	total := len(s.SelectorMap)
	if maxElements > 0 && total > maxElements {
		fmt.Fprintf(&b, "Elements (%d of %d shown):\n", maxElements, total)
	} else {
		fmt.Fprintf(&b, "Elements (%d):\n", total)
	}

	count := 0
	for _, idx := range s.SelectorMap.Indices() {
		if maxElements > 0 && count >= maxElements {
			break
		}
		count++

		n := s.SelectorMap[idx]
		if n.IsNew != nil && *n.IsNew {
			b.WriteString("*")
		}
		fmt.Fprintf(&b, "[%d] %s", idx, n.Tag)

		if text := n.InnerText(50); text != "" {
			fmt.Fprintf(&b, " %q", text)
		}
		for _, k := range promptAttributes {
			if v, ok := n.Attributes[k]; ok && v != "" {
				fmt.Fprintf(&b, " %s=%q", k, truncate(v, 80))
			}
		}
		if c := n.ViewportCoordinates; c != nil {
			fmt.Fprintf(&b, " (%.0f,%.0f)", c.Center.X, c.Center.Y)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
