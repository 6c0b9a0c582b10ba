package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anxuanzi/domtrack-go/dom"
)

// rectByXPathJS resolves an xpath and reports its client rect together with
// the scroll offset at query time. An unresolvable xpath yields the empty
// string rather than an error; the distinction matters because stale xpaths
// are routine on dynamic pages.
const rectByXPathJS = `(xpath) => {
    const node = document.evaluate(
        xpath, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null,
    ).singleNodeValue;
    if (!node || !node.getBoundingClientRect) return "";
    const r = node.getBoundingClientRect();
    return JSON.stringify({
        x: r.x, y: r.y, width: r.width, height: r.height,
        scrollX: window.scrollX, scrollY: window.scrollY,
    });
}`

const viewportJS = `() => JSON.stringify({
    scrollX: window.scrollX, scrollY: window.scrollY,
    width: window.innerWidth, height: window.innerHeight,
})`

// ElementRect implements dom.GeometryQuerier. It returns (nil, nil) when
// the xpath no longer resolves.
func (s *Session) ElementRect(ctx context.Context, xpath string) (*dom.Rect, error) {
	if s.page == nil {
		return nil, fmt.Errorf("browser: session not started")
	}
	res, err := s.page.Context(ctx).Eval(rectByXPathJS, xpath)
	if err != nil {
		return nil, fmt.Errorf("browser: rect query for %s: %w", xpath, err)
	}
	raw := res.Value.Str()
	if raw == "" {
		return nil, nil
	}
	var rect dom.Rect
	if err := json.Unmarshal([]byte(raw), &rect); err != nil {
		return nil, fmt.Errorf("browser: decode rect for %s: %w", xpath, err)
	}
	return &rect, nil
}

// Viewport implements dom.GeometryQuerier.
func (s *Session) Viewport(ctx context.Context) (*dom.ViewportInfo, error) {
	if s.page == nil {
		return nil, fmt.Errorf("browser: session not started")
	}
	res, err := s.page.Context(ctx).Eval(viewportJS)
	if err != nil {
		return nil, fmt.Errorf("browser: viewport query: %w", err)
	}
	var vp dom.ViewportInfo
	if err := json.Unmarshal([]byte(res.Value.Str()), &vp); err != nil {
		return nil, fmt.Errorf("browser: decode viewport: %w", err)
	}
	return &vp, nil
}
