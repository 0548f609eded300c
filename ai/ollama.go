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
)

// Ollama implements the Provider interface for local Ollama instances.
type Ollama struct {
	host   string
	model  string
	client *http.Client
}

var _ Provider = (*Ollama)(nil)

// NewOllama creates an Ollama provider.
func NewOllama(host, model string) *Ollama {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = "qwen2.5-coder:7b"
	}
	return &Ollama{host: strings.TrimRight(host, "/"), model: model, client: http.DefaultClient}
}

func (o *Ollama) Kind() Kind         { return KindOllama }
func (o *Ollama) Style() PromptStyle { return StyleInline }

func (o *Ollama) Name() string {
	return fmt.Sprintf("Ollama (%s)", o.model)
}

// Ready always succeeds: Ollama needs no credential. Reachability is
// checked separately with Ping.
func (o *Ollama) Ready() error { return nil }

// Host returns the configured base URL.
func (o *Ollama) Host() string { return o.host }

// Model returns the configured model name.
func (o *Ollama) Model() string { return o.model }

func (o *Ollama) Generate(ctx context.Context, p Prompt) (string, error) {
	body := map[string]interface{}{
		"model":  o.model,
		"prompt": p.User,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.1,
			"num_predict": 500,
		},
	}
	if p.System != "" {
		body["system"] = p.System
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	LogRequest(o.Name(), p)
	text, err := o.do(req)
	LogResponse(o.Name(), text, time.Since(start), err)
	return text, err
}

func (o *Ollama) do(req *http.Request) (string, error) {
	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed (is Ollama running at %s?): %w", o.host, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("ollama parse error: %w", err)
	}

	return result.Response, nil
}

// Ping checks that the Ollama server answers /api/tags.
func (o *Ollama) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.host+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable at %s: %w", o.host, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama health check returned %d", resp.StatusCode)
	}
	return nil
}
