package browser

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/anxuanzi/domtrack-go/dom"
)

// extractJS is the bulk in-page extraction routine. It returns the whole
// page state as one JSON string so the round-trip is a single Eval; the Go
// side treats the script as opaque and only validates the decoded shape.
//
//go:embed extract.js
var extractJS string

// ExtractPageState runs the in-page extraction routine and parses its
// result. A failed call or an unusable payload is the capture pipeline's
// one hard failure.
func (s *Session) ExtractPageState(ctx context.Context) (*dom.RawPayload, error) {
	if s.page == nil {
		return nil, fmt.Errorf("browser: session not started")
	}
	res, err := s.page.Context(ctx).Eval(extractJS)
	if err != nil {
		return nil, fmt.Errorf("browser: extraction call failed: %w", err)
	}
	payload, err := dom.ParsePayload([]byte(res.Value.Str()))
	if err != nil {
		return nil, fmt.Errorf("browser: extraction returned unusable payload: %w", err)
	}
	return payload, nil
}
