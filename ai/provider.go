// Package ai defines the interface for text-generation backends and
// their implementations.
//
// Design decisions:
//   - Provider is an interface so the dashboard, the ask command and the
//     compare runner treat Claude, Mistral and Ollama identically.
//   - A provider only turns a Prompt into text; prompt wording and SQL
//     extraction live in nl2sql so every backend shares them.
//   - Ready reports a missing credential before any network call, which
//     lets callers record a zero-duration configuration failure.
//   - All calls accept context for cancellation (async-friendly).
package ai

//go:generate mockgen -source=provider.go -destination=../mocks/mock_ai.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
)

// Kind identifies a backend.
type Kind string

const (
	KindClaude      Kind = "claude"
	KindMistral     Kind = "mistral"
	KindOllama      Kind = "ollama"
	KindPlaceholder Kind = "placeholder"
)

// Label returns the display label used in panels and summaries.
func (k Kind) Label() string {
	switch k {
	case KindClaude:
		return "Claude"
	case KindMistral:
		return "Mistral"
	case KindOllama:
		return "Ollama"
	case KindPlaceholder:
		return "Placeholder"
	}
	return string(k)
}

// ParseKind maps a backend name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindClaude, KindMistral, KindOllama, KindPlaceholder:
		return k, nil
	}
	return "", fmt.Errorf("unknown backend %q (supported: claude, mistral, ollama, placeholder)", s)
}

// PromptStyle selects how instructions are delivered to a backend.
type PromptStyle int

const (
	// StyleInline packs schema, question and format rules into one prompt.
	StyleInline PromptStyle = iota
	// StyleSystem sends the rules as a system message and the question
	// as the user message.
	StyleSystem
)

func (s PromptStyle) String() string {
	if s == StyleSystem {
		return "system"
	}
	return "inline"
}

// Prompt is a rendered request. System is empty for StyleInline.
type Prompt struct {
	System string
	User   string
}

// Provider is the interface all backends must implement.
type Provider interface {
	// Kind identifies the backend.
	Kind() Kind

	// Name returns the provider name for display, including the model.
	Name() string

	// Style tells the prompt builder which shape this backend expects.
	Style() PromptStyle

	// Ready returns a configuration error when a credential is missing.
	Ready() error

	// Generate sends the prompt and returns the raw response text.
	Generate(ctx context.Context, p Prompt) (string, error)
}
