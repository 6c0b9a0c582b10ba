// Package browser wraps a go-rod Chrome session and exposes the page-side
// collaborators the capture pipeline needs: bulk DOM extraction, per-element
// geometry lookups, and user-like actions.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Config configures a browser session.
type Config struct {
	// ControlURL connects to an already-running browser instead of
	// launching one.
	ControlURL string

	// Headless launches the browser without a visible window.
	Headless bool

	// Stealth enables anti-detection: stealth page injection plus extra
	// launch flags.
	Stealth bool

	// NavigationTimeout bounds Navigate, including the load wait.
	// Defaults to 30s.
	NavigationTimeout time.Duration

	Logger *slog.Logger
}

// Session is one live browser connection with a single active page.
type Session struct {
	cfg      Config
	logger   *slog.Logger
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
}

// NewSession creates an unstarted session.
func NewSession(cfg Config) *Session {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{cfg: cfg, logger: cfg.Logger}
}

// Start launches (or connects to) the browser and opens the working page.
func (s *Session) Start(ctx context.Context) error {
	controlURL := s.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(s.cfg.Headless)
		if s.cfg.Stealth {
			applyStealthFlags(l)
		}
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("browser: launch: %w", err)
		}
		s.launcher = l
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("browser: connect: %w", err)
	}
	s.browser = b

	var page *rod.Page
	var err error
	if s.cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		return fmt.Errorf("browser: open page: %w", err)
	}
	s.page = page

	s.logger.Info("browser: session started",
		"headless", s.cfg.Headless, "stealth", s.cfg.Stealth)
	return nil
}

// Page exposes the underlying rod page for collaborators that need it.
func (s *Session) Page() *rod.Page { return s.page }

// Navigate loads a URL and waits for the load event, bounded by the
// configured navigation timeout. A missed load event is logged and
// tolerated; extraction copes with partially loaded pages.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.page == nil {
		return fmt.Errorf("browser: session not started")
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		s.logger.Warn("browser: load wait incomplete", "url", url, "error", err)
	}
	s.logger.Debug("browser: navigated", "url", url)
	return nil
}

// PageInfo reports the current URL and title.
func (s *Session) PageInfo(ctx context.Context) (url, title string, err error) {
	if s.page == nil {
		return "", "", fmt.Errorf("browser: session not started")
	}
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", "", fmt.Errorf("browser: page info: %w", err)
	}
	return info.URL, info.Title, nil
}

// Close shuts the browser down and cleans up a launched process.
func (s *Session) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
		s.page = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
	return err
}
