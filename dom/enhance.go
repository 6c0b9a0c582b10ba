package dom

import (
	"context"
	"log/slog"
)

// GeometryQuerier is the per-element window into the browser: given an
// xpath it returns the element's bounding rectangle plus the scroll offset
// at query time, or nil when the element cannot be resolved. This is the
// only per-element external call the processing core makes.
type GeometryQuerier interface {
	ElementRect(ctx context.Context, xpath string) (*Rect, error)
	Viewport(ctx context.Context) (*ViewportInfo, error)
}

// Enhance annotates every interactive target in the tree with page and
// viewport coordinates and marks novelty against the previous capture's
// hash set. It returns the current capture's identity-hash set.
//
// Geometry failures are non-fatal per element: the node keeps no
// coordinates and processing continues. A capture with zero annotated
// elements is still valid.
func Enhance(ctx context.Context, tree *Node, previous HashSet, q GeometryQuerier, logger *slog.Logger) HashSet {
	if logger == nil {
		logger = slog.Default()
	}

	current := make(HashSet)
	if tree == nil {
		return current
	}

	var vp *ViewportInfo
	if q != nil {
		v, err := q.Viewport(ctx)
		if err != nil {
			logger.Warn("dom: viewport query failed", "error", err)
		} else {
			vp = v
		}
	}

	for _, n := range tree.InteractiveTargets() {
		h := HashNode(n).Composite()
		n.IdentityHash = h
		current.Add(h)

		isNew := !previous.Has(h)
		n.IsNew = &isNew

		if q == nil || n.XPath == "" {
			continue
		}
		rect, err := q.ElementRect(ctx, n.XPath)
		if err != nil {
			logger.Debug("dom: geometry lookup failed", "xpath", n.XPath, "error", err)
			continue
		}
		if rect == nil {
			continue
		}

		// Page coordinates: client rect shifted by the scroll offset the
		// browser reported alongside it. Viewport coordinates subtract the
		// current scroll offset again.
		page := coordinateSetFromBox(rect.X+rect.ScrollX, rect.Y+rect.ScrollY, rect.Width, rect.Height)
		n.PageCoordinates = page

		if vp != nil {
			n.ViewportCoordinates = coordinateSetFromBox(
				page.TopLeft.X-vp.ScrollX, page.TopLeft.Y-vp.ScrollY,
				rect.Width, rect.Height)
			n.ViewportInfo = vp
		}
	}

	return current
}
