// Package dom converts the raw flat node map produced by the in-page
// extraction routine into a typed tree with stable per-element identity,
// and annotates that tree with geometry and novelty information.
package dom

import "sort"

// TextTag is the reserved tag marker for text records.
const TextTag = "#text"

// RootTag is the canonical root container tag, also used for the fallback
// root when the declared root id is missing from the map.
const RootTag = "body"

// Node is one processed DOM tree node.
type Node struct {
	Tag        string            `json:"tag"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Text       string            `json:"text,omitempty"`
	XPath      string            `json:"xpath,omitempty"`

	Children []*Node `json:"children,omitempty"`
	// Parent is an in-process back-reference only. It forms a cycle with
	// Children and must never cross a serialization boundary.
	Parent *Node `json:"-"`

	IsVisible     bool `json:"isVisible"`
	IsInteractive bool `json:"isInteractive"`
	IsTopElement  bool `json:"isTopElement"`
	IsInViewport  bool `json:"isInViewport"`
	// HighlightIndex is set if and only if the node is a candidate for user
	// interaction. Values are unique within one capture.
	HighlightIndex *int `json:"highlightIndex,omitempty"`
	HasShadowRoot  bool `json:"hasShadowRoot,omitempty"`

	// IsNew is nil until enhancement runs, and stays nil for
	// non-interactive nodes.
	IsNew *bool `json:"isNew,omitempty"`

	PageCoordinates     *CoordinateSet `json:"pageCoordinates,omitempty"`
	ViewportCoordinates *CoordinateSet `json:"viewportCoordinates,omitempty"`
	ViewportInfo        *ViewportInfo  `json:"viewportInfoAtCapture,omitempty"`

	// IdentityHash caches the composite identity computed during
	// enhancement.
	IdentityHash string `json:"identityHash,omitempty"`
}

// IsInteractiveTarget reports whether the node is a candidate for user
// interaction: interactive, top element, and carrying a highlight index.
func (n *Node) IsInteractiveTarget() bool {
	return n.HighlightIndex != nil && n.IsInteractive && n.IsTopElement
}

// AncestorTagPath returns tag names from the node up to, but not including,
// the topmost node of the tree. This is the element's structural address by
// tag shape rather than by volatile id.
func (n *Node) AncestorTagPath() []string {
	var path []string
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		path = append(path, cur.Tag)
	}
	return path
}

// Walk visits n and all of its descendants depth-first, in child order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// InteractiveTargets returns every interactive top element in the subtree,
// in document order.
func (n *Node) InteractiveTargets() []*Node {
	var out []*Node
	n.Walk(func(node *Node) {
		if node.IsInteractiveTarget() {
			out = append(out, node)
		}
	})
	return out
}

// InnerText concatenates the visible text of the node's descendants,
// truncated to limit runes. limit <= 0 means no truncation.
func (n *Node) InnerText(limit int) string {
	var parts []string
	n.Walk(func(node *Node) {
		if node.Tag == TextTag && node.IsVisible && node.Text != "" {
			parts = append(parts, node.Text)
		}
	})
	text := joinNonEmpty(parts)
	if limit > 0 {
		r := []rune(text)
		if len(r) > limit {
			return string(r[:limit])
		}
	}
	return text
}

func joinNonEmpty(parts []string) string {
	out := ""
	for _, p := range parts {
		if out == "" {
			out = p
			continue
		}
		out += " " + p
	}
	return out
}

// SelectorMap maps a capture's highlight indices to their nodes. It is
// rebuilt fully on every capture and never merged across captures.
type SelectorMap map[int]*Node

// Indices returns the map's highlight indices in ascending order.
func (m SelectorMap) Indices() []int {
	out := make([]int, 0, len(m))
	for idx := range m {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
