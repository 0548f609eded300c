package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DachengChen/trinoai/apperr"
)

// Anthropic implements the Provider interface for the Anthropic Messages API.
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ Provider = (*Anthropic)(nil)

// NewAnthropic creates an Anthropic provider. An empty apiKey yields a
// provider whose Ready reports a configuration error.
func NewAnthropic(apiKey, model, baseURL string) *Anthropic {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	return &Anthropic{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

func (a *Anthropic) Kind() Kind         { return KindClaude }
func (a *Anthropic) Style() PromptStyle { return StyleSystem }

func (a *Anthropic) Name() string {
	return fmt.Sprintf("Claude (%s)", a.model)
}

func (a *Anthropic) Ready() error {
	if a.apiKey == "" {
		return apperr.NotConfigured("Anthropic").
			WithSuggestion("Set ANTHROPIC_API_KEY in your environment or .env file")
	}
	return nil
}

func (a *Anthropic) Generate(ctx context.Context, p Prompt) (string, error) {
	if err := a.Ready(); err != nil {
		return "", err
	}

	type apiMsg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	body := struct {
		Model       string   `json:"model"`
		MaxTokens   int      `json:"max_tokens"`
		Temperature float64  `json:"temperature"`
		System      string   `json:"system,omitempty"`
		Messages    []apiMsg `json:"messages"`
	}{
		Model:       a.model,
		MaxTokens:   1000,
		Temperature: 0.1,
		System:      p.System,
		Messages:    []apiMsg{{Role: "user", Content: p.User}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	LogRequest(a.Name(), p)
	text, err := a.do(req)
	LogResponse(a.Name(), text, time.Since(start), err)
	return text, err
}

func (a *Anthropic) do(req *http.Request) (string, error) {
	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("anthropic parse error: %w", err)
	}

	// The first content block carries the answer; concatenate any text
	// blocks in case the response was split.
	var text string
	for _, block := range result.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	if text == "" {
		return "", fmt.Errorf("anthropic returned no text content")
	}

	return text, nil
}
