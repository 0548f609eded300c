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

// Mistral implements the Provider interface for Mistral's chat
// completions API (OpenAI-compatible wire format).
type Mistral struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ Provider = (*Mistral)(nil)

// NewMistral creates a Mistral provider.
func NewMistral(apiKey, model, baseURL string) *Mistral {
	if model == "" {
		model = "mistral-small-latest"
	}
	if baseURL == "" {
		baseURL = "https://api.mistral.ai"
	}
	return &Mistral{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

func (m *Mistral) Kind() Kind         { return KindMistral }
func (m *Mistral) Style() PromptStyle { return StyleSystem }

func (m *Mistral) Name() string {
	return fmt.Sprintf("Mistral (%s)", m.model)
}

func (m *Mistral) Ready() error {
	if m.apiKey == "" {
		return apperr.NotConfigured("Mistral").
			WithSuggestion("Set MISTRAL_API_KEY in your environment or .env file")
	}
	return nil
}

func (m *Mistral) Generate(ctx context.Context, p Prompt) (string, error) {
	if err := m.Ready(); err != nil {
		return "", err
	}

	type chatMsg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	msgs := make([]chatMsg, 0, 2)
	if p.System != "" {
		msgs = append(msgs, chatMsg{Role: "system", Content: p.System})
	}
	msgs = append(msgs, chatMsg{Role: "user", Content: p.User})

	body := map[string]interface{}{
		"model":       m.model,
		"messages":    msgs,
		"temperature": 0.1,
		"max_tokens":  1000,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	start := time.Now()
	LogRequest(m.Name(), p)
	text, err := m.do(req)
	LogResponse(m.Name(), text, time.Since(start), err)
	return text, err
}

func (m *Mistral) do(req *http.Request) (string, error) {
	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mistral request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mistral API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("mistral parse error: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("mistral returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}
