package dom

import (
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

func TestBuildTreeShape(t *testing.T) {
	payload := &RawPayload{
		RootID: "0",
		Map: map[string]*RawNode{
			"0": {TagName: "body", ChildIDs: []string{"1"}},
			"1": {TagName: "div", ChildIDs: []string{"2"}},
			"2": {IsText: true, Text: "Hello"},
		},
	}

	root, selectors, err := Build(payload, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(selectors) != 0 {
		t.Errorf("selectors = %d entries, want 0", len(selectors))
	}

	if root.Tag != "body" || root.Parent != nil {
		t.Fatalf("root = %q parent=%v, want body with nil parent", root.Tag, root.Parent)
	}
	if len(root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(root.Children))
	}
	div := root.Children[0]
	if div.Tag != "div" || div.Parent != root {
		t.Errorf("child = %q, parent linked = %v", div.Tag, div.Parent == root)
	}
	if len(div.Children) != 1 || div.Children[0].Tag != TextTag || div.Children[0].Text != "Hello" {
		t.Errorf("text child not built correctly: %+v", div.Children)
	}
}

func TestBuildSelectorMapAliasesTree(t *testing.T) {
	payload := &RawPayload{
		RootID: "0",
		Map: map[string]*RawNode{
			"0": {TagName: "body", ChildIDs: []string{"1"}},
			"1": {
				TagName:        "button",
				XPath:          "/body[1]/button[1]",
				IsInteractive:  true,
				IsTopElement:   true,
				IsVisible:      boolPtr(true),
				HighlightIndex: intPtr(0),
			},
		},
	}

	root, selectors, err := Build(payload, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n, ok := selectors[0]
	if !ok {
		t.Fatal("selector map missing index 0")
	}
	// The map must reference the tree node, not a copy.
	if n != root.Children[0] {
		t.Error("selector map entry is not the tree node")
	}
}

func TestBuildToleratesMissingChild(t *testing.T) {
	payload := &RawPayload{
		RootID: "0",
		Map: map[string]*RawNode{
			"0": {TagName: "body", ChildIDs: []string{"2", "999"}},
			"2": {TagName: "p"},
		},
	}

	root, _, err := Build(payload, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(root.Children) != 1 || root.Children[0].Tag != "p" {
		t.Errorf("children = %+v, want single p", root.Children)
	}
}

func TestBuildMissingRootFallsBack(t *testing.T) {
	payload := &RawPayload{
		RootID: "404",
		Map: map[string]*RawNode{
			"0": {TagName: "div"},
		},
	}

	root, _, err := Build(payload, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if root.Tag != RootTag {
		t.Errorf("fallback root tag = %q, want %q", root.Tag, RootTag)
	}
	if len(root.Children) != 0 {
		t.Errorf("fallback root has %d children, want 0", len(root.Children))
	}
}

func TestBuildSkipsInvalidEntries(t *testing.T) {
	payload := &RawPayload{
		RootID: "0",
		Map: map[string]*RawNode{
			"0": {TagName: "body", ChildIDs: []string{"1", "2"}},
			"1": {}, // neither text nor element
			"2": {TagName: "a"},
		},
	}

	root, _, err := Build(payload, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(root.Children) != 1 || root.Children[0].Tag != "a" {
		t.Errorf("children = %+v, want single a", root.Children)
	}
}

func TestBuildOrphanStaysDetached(t *testing.T) {
	payload := &RawPayload{
		RootID: "0",
		Map: map[string]*RawNode{
			"0":      {TagName: "body"},
			"orphan": {TagName: "div"},
		},
	}

	root, _, err := Build(payload, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(root.Children) != 0 {
		t.Errorf("orphan was attached: %+v", root.Children)
	}
}

func TestBuildDefaults(t *testing.T) {
	payload := &RawPayload{
		RootID: "0",
		Map: map[string]*RawNode{
			"0": {TagName: "body", ChildIDs: []string{"1"}},
			"1": {IsText: true, Text: "t"},
		},
	}

	root, _, err := Build(payload, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Absent flags: visibility defaults false, in-viewport defaults true.
	if root.IsVisible {
		t.Error("element visibility should default to false")
	}
	if !root.IsInViewport {
		t.Error("element in-viewport should default to true")
	}
	text := root.Children[0]
	if text.IsVisible {
		t.Error("text visibility should default to false")
	}
	if !text.IsInViewport {
		t.Error("text in-viewport should default to true")
	}
}

func TestBuildRejectsUnusablePayload(t *testing.T) {
	if _, _, err := Build(&RawPayload{RootID: "0"}, testLogger()); err == nil {
		t.Error("expected error for payload without map")
	}
	if _, _, err := Build(&RawPayload{Map: map[string]*RawNode{}}, testLogger()); err == nil {
		t.Error("expected error for payload without root id")
	}
}
