package dom

import (
	"encoding/json"
	"fmt"
)

// RawKind discriminates the shape of one extraction map entry. The in-page
// routine emits duck-typed records; the discriminant is fixed here, at parse
// time, so downstream code never re-inspects field presence.
type RawKind int

const (
	// KindInvalid marks entries that are neither a recognizable text record
	// nor an element record. They are skipped with a warning during Build.
	KindInvalid RawKind = iota
	KindText
	KindElement
)

// RawNode is one entry of the flat node map produced by the in-page
// extraction routine. Text and element records share the struct; Kind
// decides which fields are meaningful. Ids referencing RawNodes are unique
// within one capture only and must never be compared across captures.
type RawNode struct {
	IsText bool   `json:"isText,omitempty"`
	Text   string `json:"text,omitempty"`

	TagName    string            `json:"tagName,omitempty"`
	XPath      string            `json:"xpath,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	ChildIDs   []string          `json:"childIds,omitempty"`

	// Pointers so that absence is distinguishable from false. Absence from
	// the extraction routine means "assume in viewport unless told
	// otherwise", while visibility defaults to false.
	IsVisible    *bool `json:"isVisible,omitempty"`
	IsInViewport *bool `json:"isInViewport,omitempty"`

	IsInteractive  bool `json:"isInteractive,omitempty"`
	IsTopElement   bool `json:"isTopElement,omitempty"`
	HighlightIndex *int `json:"highlightIndex,omitempty"`
	HasShadowRoot  bool `json:"hasShadowRoot,omitempty"`
}

// Kind classifies the record.
func (r *RawNode) Kind() RawKind {
	switch {
	case r.IsText:
		return KindText
	case r.TagName != "":
		return KindElement
	default:
		return KindInvalid
	}
}

// RawPayload is the extraction routine's output: a flat id-keyed node map
// plus the id of the root entry. PerfMetrics is opaque timing data from the
// in-page routine, carried through untouched.
type RawPayload struct {
	RootID      string              `json:"rootId"`
	Map         map[string]*RawNode `json:"map"`
	PerfMetrics json.RawMessage     `json:"perfMetrics,omitempty"`
}

// ParsePayload decodes an extraction result and checks structural
// well-formedness. Semantic correctness of individual node fields is not
// validated here; defaulting happens during Build.
func ParsePayload(data []byte) (*RawPayload, error) {
	var p RawPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("dom: decode extraction payload: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that the payload carries a node map and a root id. Either
// missing means there is nothing to build from.
func (p *RawPayload) Validate() error {
	if p.Map == nil {
		return fmt.Errorf("dom: extraction payload has no node map")
	}
	if p.RootID == "" {
		return fmt.Errorf("dom: extraction payload has no root id")
	}
	return nil
}
