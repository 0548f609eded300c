package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Placeholder is a canned backend for development without network access.
// It answers in the EXPLANATION/SQL format the extraction pipeline expects.
type Placeholder struct {
	delay time.Duration
}

var _ Provider = (*Placeholder)(nil)

func NewPlaceholder() *Placeholder {
	return &Placeholder{delay: 300 * time.Millisecond}
}

func (p *Placeholder) Kind() Kind         { return KindPlaceholder }
func (p *Placeholder) Style() PromptStyle { return StyleInline }
func (p *Placeholder) Ready() error       { return nil }

func (p *Placeholder) Name() string {
	return "placeholder"
}

func (p *Placeholder) Generate(ctx context.Context, prompt Prompt) (string, error) {
	// Simulate network latency
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	question := lastQuestion(prompt.User)
	return fmt.Sprintf("EXPLANATION: Placeholder answer for %q; configure a real backend for actual SQL.\n"+
		"SQL:\n"+
		"SELECT 1 AS placeholder\n"+
		"LIMIT 100", truncate(question, 80)), nil
}

// lastQuestion pulls the question out of an inline prompt, or returns
// the text unchanged for a system-style user message.
func lastQuestion(user string) string {
	const marker = "User question: "
	i := strings.LastIndex(user, marker)
	if i < 0 {
		return strings.TrimSpace(user)
	}
	rest := user[i+len(marker):]
	if j := strings.IndexByte(rest, '\n'); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
