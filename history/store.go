// Package history keeps a bounded rolling record of past captures'
// interactive elements, used to answer "what recently appeared or
// disappeared" across captures of one browsing session.
package history

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/anxuanzi/domtrack-go/dom"
)

// DefaultCapacity is the default number of captures the store retains.
const DefaultCapacity = 10

// recentWindowStates bounds how many of the most recent captures feed the
// appeared/disappeared comparison. Comparing against the entire history
// would make "recent" meaningless on long sessions.
const recentWindowStates = 3

// identifyingAttributes are the attributes echoed in formatted summaries.
var identifyingAttributes = []string{"id", "class", "type", "name", "placeholder", "aria-label"}

// Record is a detached, tree-reference-free flattening of one interactive
// element at capture time. Records are appended in bulk when a capture
// completes and evicted in bulk, never individually mutated.
type Record struct {
	TagName             string             `json:"tagName"`
	XPath               string             `json:"xpath"`
	HighlightIndex      *int               `json:"highlightIndex,omitempty"`
	AncestorTagPath     []string           `json:"ancestorTagPath,omitempty"`
	Attributes          map[string]string  `json:"attributes,omitempty"`
	HasShadowRoot       bool               `json:"hasShadowRoot,omitempty"`
	ViewportCoordinates *dom.CoordinateSet `json:"viewportCoordinates,omitempty"`
	IdentityHash        string             `json:"identityHash"`
}

// Flatten converts a snapshot's interactive targets into history records.
func Flatten(snap *dom.PageSnapshot) []Record {
	if snap == nil || snap.Tree == nil {
		return nil
	}
	var out []Record
	for _, n := range snap.Tree.InteractiveTargets() {
		out = append(out, Record{
			TagName:             n.Tag,
			XPath:               n.XPath,
			HighlightIndex:      n.HighlightIndex,
			AncestorTagPath:     n.AncestorTagPath(),
			Attributes:          n.Attributes,
			HasShadowRoot:       n.HasShadowRoot,
			ViewportCoordinates: n.ViewportCoordinates,
			IdentityHash:        identityOf(n),
		})
	}
	return out
}

func identityOf(n *dom.Node) string {
	if n.IdentityHash != "" {
		return n.IdentityHash
	}
	return dom.HashNode(n).Composite()
}

// Store is a bounded, append-only buffer of captures. It is owned by one
// session's coordinator and passed by reference; sharing one store across
// concurrent sessions would interleave their histories.
type Store struct {
	capacity int
	logger   *slog.Logger

	records []Record
	states  []*dom.PageSnapshot
	// counts tracks how many records each state contributed, parallel to
	// states, so eviction works at whole-capture granularity.
	counts []int
}

// New creates a Store retaining at most capacity captures.
func New(capacity int, logger *slog.Logger) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{capacity: capacity, logger: logger}
}

// Append flattens the snapshot's interactive elements into the store and
// evicts the oldest captures once capacity is exceeded. Eviction is FIFO at
// whole-capture granularity.
func (s *Store) Append(snap *dom.PageSnapshot) {
	recs := Flatten(snap)
	s.records = append(s.records, recs...)
	s.states = append(s.states, snap)
	s.counts = append(s.counts, len(recs))

	for len(s.states) > s.capacity {
		n := s.counts[0]
		s.records = s.records[n:]
		s.states = s.states[1:]
		s.counts = s.counts[1:]
		s.logger.Debug("history: evicted oldest capture", "records", n)
	}
}

// recentWindow returns the records of the most recent captures, bounded by
// recentWindowStates.
func (s *Store) recentWindow() []Record {
	total := 0
	for i := len(s.counts) - 1; i >= 0 && len(s.counts)-i <= recentWindowStates; i-- {
		total += s.counts[i]
	}
	return s.records[len(s.records)-total:]
}

// RecentlyAppeared returns the current elements whose identity is absent
// from the recent window. An empty store has no baseline, so every current
// element counts as appeared.
func (s *Store) RecentlyAppeared(current []Record) []Record {
	if len(s.states) == 0 {
		return current
	}
	recent := make(dom.HashSet)
	for _, r := range s.recentWindow() {
		recent.Add(r.IdentityHash)
	}
	var out []Record
	for _, r := range current {
		if !recent.Has(r.IdentityHash) {
			out = append(out, r)
		}
	}
	return out
}

// RecentlyDisappeared returns recent-window records whose identity is
// absent from the current element set, deduplicated by identity.
func (s *Store) RecentlyDisappeared(current []Record) []Record {
	if len(s.states) == 0 {
		return nil
	}
	cur := make(dom.HashSet)
	for _, r := range current {
		cur.Add(r.IdentityHash)
	}
	seen := make(dom.HashSet)
	var out []Record
	for _, r := range s.recentWindow() {
		if cur.Has(r.IdentityHash) || seen.Has(r.IdentityHash) {
			continue
		}
		seen.Add(r.IdentityHash)
		out = append(out, r)
	}
	return out
}

// Size reports stored element records and capture states.
func (s *Store) Size() (elements, states int) {
	return len(s.records), len(s.states)
}

// Clear drops all history.
func (s *Store) Clear() {
	s.records = nil
	s.states = nil
	s.counts = nil
}

// Format renders the appeared/disappeared summary as a prompt-ready text
// block, each list truncated to maxElements. It returns empty text when
// there is nothing to report.
func (s *Store) Format(current []Record, maxElements int) string {
	appeared := s.RecentlyAppeared(current)
	disappeared := s.RecentlyDisappeared(current)
	navNote := s.navigationNote()

	if len(appeared) == 0 && len(disappeared) == 0 && navNote == "" {
		return ""
	}

	var b strings.Builder
	if navNote != "" {
		b.WriteString(navNote + "\n")
	}
	if len(appeared) > 0 {
		b.WriteString("New elements on page:\n")
		writeRecords(&b, appeared, "+", maxElements)
	}
	if len(disappeared) > 0 {
		b.WriteString("Elements no longer present:\n")
		writeRecords(&b, disappeared, "-", maxElements)
	}
	return b.String()
}

func writeRecords(b *strings.Builder, recs []Record, prefix string, max int) {
	for i, r := range recs {
		if max > 0 && i >= max {
			fmt.Fprintf(b, "  ... and %d more\n", len(recs)-max)
			return
		}
		fmt.Fprintf(b, "  %s %s\n", prefix, r.summaryLine())
	}
}

func (r Record) summaryLine() string {
	var b strings.Builder
	if r.HighlightIndex != nil {
		fmt.Fprintf(&b, "[%d] ", *r.HighlightIndex)
	}
	b.WriteString(r.TagName)
	if c := r.ViewportCoordinates; c != nil {
		fmt.Fprintf(&b, " (%.0f,%.0f)", c.Center.X, c.Center.Y)
	}
	for _, k := range identifyingAttributes {
		if v, ok := r.Attributes[k]; ok && v != "" {
			fmt.Fprintf(&b, " %s=%q", k, v)
		}
	}
	return b.String()
}

// navigationNote reports a URL change between the two most recent captures.
func (s *Store) navigationNote() string {
	if len(s.states) < 2 {
		return ""
	}
	prev := s.states[len(s.states)-2]
	last := s.states[len(s.states)-1]
	if prev.URL != last.URL {
		return fmt.Sprintf("Navigation: %s -> %s", prev.URL, last.URL)
	}
	return ""
}
