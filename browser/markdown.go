package browser

import (
	"context"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// PageMarkdown converts the current page's HTML to markdown, which reads
// far better in a prompt than raw HTML and is a fraction of the tokens.
func (s *Session) PageMarkdown(ctx context.Context) (string, error) {
	if s.page == nil {
		return "", fmt.Errorf("browser: session not started")
	}
	res, err := s.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: read page html: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(res.Value.Str())
	if err != nil {
		return "", fmt.Errorf("browser: convert to markdown: %w", err)
	}
	return md, nil
}
