package dom

import (
	"context"
	"fmt"
	"testing"
)

// fakeQuerier serves canned rects keyed by xpath.
type fakeQuerier struct {
	rects    map[string]*Rect
	failures map[string]bool
	viewport *ViewportInfo
}

func (f *fakeQuerier) ElementRect(_ context.Context, xpath string) (*Rect, error) {
	if f.failures[xpath] {
		return nil, fmt.Errorf("element gone")
	}
	return f.rects[xpath], nil
}

func (f *fakeQuerier) Viewport(context.Context) (*ViewportInfo, error) {
	if f.viewport == nil {
		return nil, fmt.Errorf("no viewport")
	}
	return f.viewport, nil
}

func interactiveNode(parent *Node, xpath string, idx int) *Node {
	n := &Node{
		Tag:            "button",
		XPath:          xpath,
		IsInteractive:  true,
		IsTopElement:   true,
		IsVisible:      true,
		HighlightIndex: intPtr(idx),
		Parent:         parent,
	}
	parent.Children = append(parent.Children, n)
	return n
}

func TestEnhanceNoveltyMarking(t *testing.T) {
	root := &Node{Tag: "body"}
	known := interactiveNode(root, "/body[1]/button[1]", 0)
	fresh := interactiveNode(root, "/body[1]/button[2]", 1)
	plain := &Node{Tag: "p", Parent: root}
	root.Children = append(root.Children, plain)

	previous := NewHashSet(HashNode(known).Composite())

	current := Enhance(context.Background(), root, previous, nil, testLogger())

	if current.Len() != 2 {
		t.Fatalf("current set has %d hashes, want 2", current.Len())
	}
	if known.IsNew == nil || *known.IsNew {
		t.Error("previously seen element marked new")
	}
	if fresh.IsNew == nil || !*fresh.IsNew {
		t.Error("unseen element not marked new")
	}
	if plain.IsNew != nil {
		t.Error("non-interactive node should keep nil IsNew")
	}
	if known.IdentityHash == "" || fresh.IdentityHash == "" {
		t.Error("identity hash not cached on interactive nodes")
	}
}

func TestEnhanceFirstCaptureAllNew(t *testing.T) {
	root := &Node{Tag: "body"}
	n := interactiveNode(root, "/body[1]/button[1]", 0)

	Enhance(context.Background(), root, nil, nil, testLogger())

	if n.IsNew == nil || !*n.IsNew {
		t.Error("element on first capture should be new")
	}
}

func TestEnhanceCoordinates(t *testing.T) {
	root := &Node{Tag: "body"}
	n := interactiveNode(root, "/body[1]/button[1]", 0)

	q := &fakeQuerier{
		rects: map[string]*Rect{
			// Client rect at (10, 20), captured while scrolled to (0, 100).
			"/body[1]/button[1]": {X: 10, Y: 20, Width: 200, Height: 40, ScrollX: 0, ScrollY: 100},
		},
		viewport: &ViewportInfo{ScrollX: 0, ScrollY: 100, Width: 1280, Height: 720},
	}

	Enhance(context.Background(), root, nil, q, testLogger())

	pc := n.PageCoordinates
	if pc == nil {
		t.Fatal("page coordinates not set")
	}
	if pc.TopLeft.X != 10 || pc.TopLeft.Y != 120 {
		t.Errorf("page top-left = (%v,%v), want (10,120)", pc.TopLeft.X, pc.TopLeft.Y)
	}
	if pc.BottomRight.X != 210 || pc.BottomRight.Y != 160 {
		t.Errorf("page bottom-right = (%v,%v), want (210,160)", pc.BottomRight.X, pc.BottomRight.Y)
	}
	if pc.Center.X != 110 || pc.Center.Y != 140 {
		t.Errorf("page center = (%v,%v), want (110,140)", pc.Center.X, pc.Center.Y)
	}

	vc := n.ViewportCoordinates
	if vc == nil {
		t.Fatal("viewport coordinates not set")
	}
	if vc.TopLeft.X != 10 || vc.TopLeft.Y != 20 {
		t.Errorf("viewport top-left = (%v,%v), want (10,20)", vc.TopLeft.X, vc.TopLeft.Y)
	}
	if n.ViewportInfo == nil || n.ViewportInfo.Height != 720 {
		t.Error("viewport info not attached")
	}
}

func TestEnhanceGeometryFailureNonFatal(t *testing.T) {
	root := &Node{Tag: "body"}
	broken := interactiveNode(root, "/body[1]/button[1]", 0)
	working := interactiveNode(root, "/body[1]/button[2]", 1)

	q := &fakeQuerier{
		rects: map[string]*Rect{
			"/body[1]/button[2]": {X: 0, Y: 0, Width: 10, Height: 10},
		},
		failures: map[string]bool{"/body[1]/button[1]": true},
		viewport: &ViewportInfo{Width: 1280, Height: 720},
	}

	current := Enhance(context.Background(), root, nil, q, testLogger())

	if broken.PageCoordinates != nil {
		t.Error("failed element should have no coordinates")
	}
	if working.PageCoordinates == nil {
		t.Error("working element lost its coordinates to a sibling's failure")
	}
	// Both still participate in identity tracking.
	if current.Len() != 2 {
		t.Errorf("current set has %d hashes, want 2", current.Len())
	}
}

func TestEnhanceNilTree(t *testing.T) {
	current := Enhance(context.Background(), nil, nil, nil, testLogger())
	if current.Len() != 0 {
		t.Error("nil tree should produce an empty hash set")
	}
}
