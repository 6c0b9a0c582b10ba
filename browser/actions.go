package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"
)

// Default pacing between user-like actions, in milliseconds.
const (
	actionDelayMin = 50
	actionDelayMax = 150
)

// ClickXPath scrolls the element into view and clicks it.
func (s *Session) ClickXPath(ctx context.Context, xpath string) error {
	if s.page == nil {
		return fmt.Errorf("browser: session not started")
	}
	el, err := s.page.Context(ctx).ElementX(xpath)
	if err != nil {
		return fmt.Errorf("browser: resolve %s: %w", xpath, err)
	}
	if err := el.ScrollIntoView(); err != nil {
		s.logger.Debug("browser: scroll into view failed", "xpath", xpath, "error", err)
	}
	humanDelay(actionDelayMin, actionDelayMax)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("browser: click %s: %w", xpath, err)
	}
	s.logger.Debug("browser: clicked", "xpath", xpath)
	return nil
}

// TypeXPath focuses the element, clears its current content, and types text.
func (s *Session) TypeXPath(ctx context.Context, xpath, text string) error {
	if s.page == nil {
		return fmt.Errorf("browser: session not started")
	}
	el, err := s.page.Context(ctx).ElementX(xpath)
	if err != nil {
		return fmt.Errorf("browser: resolve %s: %w", xpath, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("browser: focus %s: %w", xpath, err)
	}
	if err := el.SelectAllText(); err != nil {
		s.logger.Debug("browser: select all failed", "xpath", xpath, "error", err)
	}
	humanDelay(actionDelayMin, actionDelayMax)
	if err := el.Input(text); err != nil {
		return fmt.Errorf("browser: type into %s: %w", xpath, err)
	}
	s.logger.Debug("browser: typed", "xpath", xpath, "chars", len(text))
	return nil
}

// Scroll scrolls the page by the given pixel deltas.
func (s *Session) Scroll(ctx context.Context, dx, dy float64) error {
	if s.page == nil {
		return fmt.Errorf("browser: session not started")
	}
	_, err := s.page.Context(ctx).Eval(`(dx, dy) => window.scrollBy(dx, dy)`, dx, dy)
	if err != nil {
		return fmt.Errorf("browser: scroll: %w", err)
	}
	return nil
}

// Screenshot captures the current viewport as PNG bytes.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	if s.page == nil {
		return nil, fmt.Errorf("browser: session not started")
	}
	data, err := s.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("browser: screenshot: %w", err)
	}
	return data, nil
}
