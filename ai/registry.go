package ai

import (
	"fmt"

	"github.com/DachengChen/trinoai/config"
)

// SupportedProviders lists available provider names for display.
var SupportedProviders = []Kind{KindClaude, KindMistral, KindOllama, KindPlaceholder}

// CompareOrder is the sequence Compare All runs backends in.
var CompareOrder = []Kind{KindClaude, KindMistral, KindOllama}

// NewProvider creates a provider from the application config. Providers
// are always constructed; a missing credential surfaces from Ready.
func NewProvider(kind Kind, cfg config.AIConfig) (Provider, error) {
	switch kind {
	case KindClaude:
		return NewAnthropic(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.BaseURL), nil
	case KindMistral:
		return NewMistral(cfg.Mistral.APIKey, cfg.Mistral.Model, cfg.Mistral.BaseURL), nil
	case KindOllama:
		return NewOllama(cfg.Ollama.Host, cfg.Ollama.Model), nil
	case KindPlaceholder:
		return NewPlaceholder(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q. Supported: claude, mistral, ollama, placeholder", kind)
	}
}

// Registry holds one constructed provider per kind.
type Registry struct {
	providers map[Kind]Provider
}

// NewRegistry constructs every supported provider from cfg.
func NewRegistry(cfg config.AIConfig) *Registry {
	r := &Registry{providers: make(map[Kind]Provider, len(SupportedProviders))}
	for _, k := range SupportedProviders {
		p, err := NewProvider(k, cfg)
		if err == nil {
			r.providers[k] = p
		}
	}
	return r
}

// NewRegistryOf builds a registry from explicit providers, keyed by Kind.
func NewRegistryOf(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[Kind]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Kind()] = p
	}
	return r
}

// Get returns the provider for kind.
func (r *Registry) Get(kind Kind) (Provider, error) {
	p, ok := r.providers[kind]
	if !ok {
		return nil, fmt.Errorf("backend %q is not registered", kind)
	}
	return p, nil
}
