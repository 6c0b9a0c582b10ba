// Package domtrack is a browser agent built around DOM change tracking:
// every capture turns the live page into a typed element tree with stable
// identity hashes, and a rolling history answers "what appeared or
// disappeared" between steps. An optional Gemini translator closes the
// loop from task description to browser actions.
package domtrack

import (
	"context"
	"fmt"

	"github.com/anxuanzi/domtrack-go/browser"
	"github.com/anxuanzi/domtrack-go/capture"
	"github.com/anxuanzi/domtrack-go/dom"
	"github.com/anxuanzi/domtrack-go/history"
	"github.com/anxuanzi/domtrack-go/llm"
	"github.com/anxuanzi/domtrack-go/screenshot"
	"github.com/anxuanzi/domtrack-go/trace"
)

// Agent owns one browser session and its capture pipeline.
type Agent struct {
	cfg        Config
	session    *browser.Session
	coord      *capture.Coordinator
	translator *llm.Translator
	recorder   *trace.Recorder
}

// Step is one executed action of a Run.
type Step struct {
	Action    string
	Target    string
	Reasoning string
}

// Result summarizes a Run.
type Result struct {
	Success bool
	Steps   []Step
}

// New creates an unstarted Agent. Each Agent carries its own history
// store; sharing one across sessions would interleave their histories.
func New(cfg Config) (*Agent, error) {
	cfg.applyDefaults()

	session := browser.NewSession(browser.Config{
		ControlURL:        cfg.ControlURL,
		Headless:          cfg.Headless,
		Stealth:           cfg.Stealth,
		NavigationTimeout: cfg.NavigationTimeout,
		Logger:            cfg.Logger,
	})

	a := &Agent{
		cfg:     cfg,
		session: session,
		coord: capture.New(capture.Config{
			Extractor:         session,
			Geometry:          session,
			History:           history.New(cfg.HistorySize, cfg.Logger),
			MaxChangeElements: cfg.MaxChangeElements,
			Logger:            cfg.Logger,
		}),
	}

	if cfg.TracePath != "" {
		rec, err := trace.Open(cfg.TracePath)
		if err != nil {
			return nil, err
		}
		a.recorder = rec
	}
	return a, nil
}

// Start launches the browser and, when an API key is configured, the
// action translator.
func (a *Agent) Start(ctx context.Context) error {
	if a.cfg.APIKey != "" {
		t, err := llm.NewTranslator(ctx, a.cfg.APIKey, a.cfg.Model)
		if err != nil {
			return err
		}
		a.translator = t
	}
	return a.session.Start(ctx)
}

// Navigate loads a URL.
func (a *Agent) Navigate(ctx context.Context, url string) error {
	return a.session.Navigate(ctx, url)
}

// Capture runs one capture cycle and returns the page snapshot.
func (a *Agent) Capture(ctx context.Context) (*dom.PageSnapshot, error) {
	snap, err := a.coord.Capture(ctx)
	if err != nil {
		return nil, err
	}
	if a.recorder != nil {
		counts := a.coord.LastChangeCounts()
		if rerr := a.recorder.RecordCapture(snap.URL, snap.Title,
			len(snap.SelectorMap), counts.Appeared, counts.Disappeared); rerr != nil {
			a.cfg.Logger.Warn("agent: trace capture failed", "error", rerr)
		}
	}
	return snap, nil
}

// Changes returns the change summary computed by the most recent Capture.
func (a *Agent) Changes() string { return a.coord.Changes() }

// Act executes one translated action against the current page.
func (a *Agent) Act(ctx context.Context, act *llm.Action, snap *dom.PageSnapshot) error {
	var target string
	var err error

	switch act.Action {
	case "click":
		target, err = a.xpathForIndex(act.Index, snap)
		if err == nil {
			err = a.session.ClickXPath(ctx, target)
		}
	case "type":
		target, err = a.xpathForIndex(act.Index, snap)
		if err == nil {
			err = a.session.TypeXPath(ctx, target, act.Text)
		}
	case "navigate":
		target = act.URL
		err = a.session.Navigate(ctx, act.URL)
	case "scroll":
		err = a.session.Scroll(ctx, 0, 600)
	case "done":
		// Nothing to execute.
	default:
		err = fmt.Errorf("agent: unknown action %q", act.Action)
	}

	if a.recorder != nil {
		if rerr := a.recorder.RecordAction(act.Action, target, act.Text, err == nil); rerr != nil {
			a.cfg.Logger.Warn("agent: trace action failed", "error", rerr)
		}
	}
	return err
}

func (a *Agent) xpathForIndex(idx *int, snap *dom.PageSnapshot) (string, error) {
	if idx == nil {
		return "", fmt.Errorf("agent: action needs an element index")
	}
	n, ok := snap.SelectorMap[*idx]
	if !ok {
		return "", fmt.Errorf("agent: no element with index %d", *idx)
	}
	if n.XPath == "" {
		return "", fmt.Errorf("agent: element %d has no xpath", *idx)
	}
	return n.XPath, nil
}

// Run drives the capture-translate-act loop until the model reports done
// or MaxSteps is reached.
func (a *Agent) Run(ctx context.Context, task string) (*Result, error) {
	if a.translator == nil {
		return nil, fmt.Errorf("agent: no API key configured, cannot run tasks")
	}

	result := &Result{}
	for i := 0; i < a.cfg.MaxSteps; i++ {
		snap, err := a.Capture(ctx)
		if err != nil {
			return result, err
		}

		act, err := a.translator.Translate(ctx, task, snap.PromptString(50), a.Changes())
		if err != nil {
			return result, err
		}

		step := Step{Action: act.Action, Reasoning: act.Reasoning}
		if act.Index != nil {
			if n, ok := snap.SelectorMap[*act.Index]; ok {
				step.Target = fmt.Sprintf("[%d] %s", *act.Index, n.Tag)
			}
		} else if act.URL != "" {
			step.Target = act.URL
		}
		result.Steps = append(result.Steps, step)

		if act.Action == "done" {
			result.Success = act.Done
			return result, nil
		}

		if err := a.Act(ctx, act, snap); err != nil {
			a.cfg.Logger.Warn("agent: action failed", "action", act.Action, "error", err)
		}
	}
	return result, nil
}

// AnnotatedScreenshot captures the viewport and draws element boxes onto it.
func (a *Agent) AnnotatedScreenshot(ctx context.Context, snap *dom.PageSnapshot) ([]byte, error) {
	img, err := a.session.Screenshot(ctx)
	if err != nil {
		return nil, err
	}
	return screenshot.Annotate(img, snap, screenshot.DefaultConfig())
}

// PageMarkdown returns the current page converted to markdown.
func (a *Agent) PageMarkdown(ctx context.Context) (string, error) {
	return a.session.PageMarkdown(ctx)
}

// History exposes the session's rolling history store.
func (a *Agent) History() *history.Store { return a.coord.History() }

// Close shuts down the browser and the trace recorder.
func (a *Agent) Close() error {
	err := a.session.Close()
	if a.recorder != nil {
		if cerr := a.recorder.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
