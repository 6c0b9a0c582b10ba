// Package capture sequences one extraction-and-process cycle: invoke the
// in-page extraction routine, build the typed tree, enhance it with
// geometry and novelty, assemble the page snapshot, and feed the rolling
// history store.
package capture

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anxuanzi/domtrack-go/dom"
	"github.com/anxuanzi/domtrack-go/history"
)

// DefaultMaxChangeElements truncates the appeared/disappeared lists in the
// formatted change summary.
const DefaultMaxChangeElements = 20

// Extractor is the bulk in-page extraction collaborator. It is treated as
// opaque: the coordinator validates only structural well-formedness of its
// result.
type Extractor interface {
	ExtractPageState(ctx context.Context) (*dom.RawPayload, error)
	PageInfo(ctx context.Context) (url, title string, err error)
}

// Config configures a Coordinator.
type Config struct {
	Extractor Extractor
	Geometry  dom.GeometryQuerier
	// History is the session's rolling store. The coordinator owns it for
	// the session; it is never shared across sessions.
	History *history.Store
	// MaxChangeElements bounds each list in the change summary. Default 20.
	MaxChangeElements int
	Logger            *slog.Logger
}

// Coordinator runs captures for one browsing session, serially.
type Coordinator struct {
	extractor Extractor
	geometry  dom.GeometryQuerier
	store     *history.Store
	maxChange int
	logger    *slog.Logger

	prevHashes  dom.HashSet
	lastChanges string
	lastCounts  ChangeCounts
}

// ChangeCounts summarizes the last capture's change detection.
type ChangeCounts struct {
	Appeared    int
	Disappeared int
}

// New creates a Coordinator.
func New(cfg Config) *Coordinator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.History == nil {
		cfg.History = history.New(history.DefaultCapacity, cfg.Logger)
	}
	if cfg.MaxChangeElements <= 0 {
		cfg.MaxChangeElements = DefaultMaxChangeElements
	}
	return &Coordinator{
		extractor: cfg.Extractor,
		geometry:  cfg.Geometry,
		store:     cfg.History,
		maxChange: cfg.MaxChangeElements,
		logger:    cfg.Logger,
	}
}

// History exposes the session's rolling history store.
func (c *Coordinator) History() *history.Store { return c.store }

// Capture runs one full cycle and returns the assembled snapshot. The only
// hard failure is an unusable extraction result; everything downstream
// recovers locally with a log line. There is no partial-success result.
func (c *Coordinator) Capture(ctx context.Context) (*dom.PageSnapshot, error) {
	payload, err := c.extractor.ExtractPageState(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture: extract page state: %w", err)
	}

	tree, selectors, err := dom.Build(payload, c.logger)
	if err != nil {
		return nil, fmt.Errorf("capture: extract page state: %w", err)
	}

	current := dom.Enhance(ctx, tree, c.prevHashes, c.geometry, c.logger)

	url, title, err := c.extractor.PageInfo(ctx)
	if err != nil {
		c.logger.Warn("capture: page info unavailable", "error", err)
	}

	var vp *dom.ViewportInfo
	if c.geometry != nil {
		if v, verr := c.geometry.Viewport(ctx); verr == nil {
			vp = v
		}
	}

	snap := &dom.PageSnapshot{
		URL:               url,
		Title:             title,
		Tree:              tree,
		SelectorMap:       selectors,
		InteractiveHashes: current,
		Viewport:          vp,
	}

	// The change summary must compare against history as it stood before
	// this capture, so format first, then append.
	records := history.Flatten(snap)
	c.lastChanges = c.store.Format(records, c.maxChange)
	c.lastCounts = ChangeCounts{
		Appeared:    len(c.store.RecentlyAppeared(records)),
		Disappeared: len(c.store.RecentlyDisappeared(records)),
	}

	c.store.Append(snap)
	c.prevHashes = current

	c.logger.Info("capture: completed",
		"url", url,
		"interactive", len(selectors),
		"appeared", c.lastCounts.Appeared,
		"disappeared", c.lastCounts.Disappeared)
	return snap, nil
}

// Changes returns the formatted appeared/disappeared summary computed
// during the most recent Capture. Empty when nothing changed.
func (c *Coordinator) Changes() string { return c.lastChanges }

// LastChangeCounts returns the raw counts behind Changes.
func (c *Coordinator) LastChangeCounts() ChangeCounts { return c.lastCounts }
