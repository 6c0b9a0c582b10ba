// Package llm turns a task description plus the current page state into the
// next browser action, using Gemini with a JSON response contract.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Action is the model's decision for one step.
type Action struct {
	// Action is one of: click, type, navigate, scroll, done.
	Action string `json:"action"`

	// Index selects an element from the numbered listing for click/type.
	Index *int `json:"index,omitempty"`

	// Text is the input for type actions.
	Text string `json:"text,omitempty"`

	// URL is the destination for navigate actions.
	URL string `json:"url,omitempty"`

	// Done reports task completion alongside action "done".
	Done bool `json:"done,omitempty"`

	Reasoning string `json:"reasoning,omitempty"`
}

// Translator asks the model for the next action.
type Translator struct {
	client *genai.Client
	model  string
}

// NewTranslator creates a Translator backed by the Gemini API.
func NewTranslator(ctx context.Context, apiKey, model string) (*Translator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create client: %w", err)
	}
	return &Translator{client: client, model: model}, nil
}

const systemPrompt = `You control a web browser to complete a task. You see
the page as a numbered list of interactive elements; elements marked with a
leading * are new since the previous step.

Respond with a single JSON object:
  {"action": "click", "index": N, "reasoning": "..."}
  {"action": "type", "index": N, "text": "...", "reasoning": "..."}
  {"action": "navigate", "url": "...", "reasoning": "..."}
  {"action": "scroll", "reasoning": "..."}
  {"action": "done", "done": true, "reasoning": "..."}

Use "done" only when the task is complete or cannot proceed.`

// Translate asks the model for the next action given the task, the current
// page listing, and the recent-change summary (may be empty).
func (t *Translator) Translate(ctx context.Context, task, pageState, changes string) (*Action, error) {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nTask: ")
	b.WriteString(task)
	b.WriteString("\n\n")
	b.WriteString(pageState)
	if changes != "" {
		b.WriteString("\nChanges since last step:\n")
		b.WriteString(changes)
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model,
		genai.Text(b.String()),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return nil, fmt.Errorf("llm: generate: %w", err)
	}

	act, err := ParseAction(resp.Text())
	if err != nil {
		return nil, err
	}
	return act, nil
}

// ParseAction decodes a model response into an Action, tolerating markdown
// code fences around the JSON.
func ParseAction(raw string) (*Action, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	var act Action
	if err := json.Unmarshal([]byte(s), &act); err != nil {
		return nil, fmt.Errorf("llm: decode action: %w", err)
	}
	if act.Action == "" {
		return nil, fmt.Errorf("llm: response has no action")
	}
	return &act, nil
}
