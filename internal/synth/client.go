package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is the production Synthesizer: it posts the prompt to an HTTP
// endpoint that replies with a TemplateShape JSON document.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a synthesis client. The timeout bounds the whole
// round trip; the synthesizer can be slow but must not hang a request
// forever.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type synthesizeRequest struct {
	Prompt string `json:"prompt"`
}

// Synthesize sends the prompt and decodes the candidate shape. Transport
// errors, non-2xx statuses and unparseable bodies all surface as errors the
// caller can retry.
func (c *Client) Synthesize(ctx context.Context, prompt string) (TemplateShape, error) {
	body, err := json.Marshal(synthesizeRequest{Prompt: prompt})
	if err != nil {
		return TemplateShape{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return TemplateShape{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TemplateShape{}, fmt.Errorf("call synthesizer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return TemplateShape{}, fmt.Errorf("synthesizer returned status %d", resp.StatusCode)
	}

	var shape TemplateShape
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&shape); err != nil {
		return TemplateShape{}, fmt.Errorf("decode synthesizer response: %w", err)
	}
	return shape, nil
}
