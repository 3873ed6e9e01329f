// Package gemini adapts the Google generative-language API to the call shapes
// the dashboard needs: plain generation, grounded search, schema-constrained
// extraction and multi-turn chat.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
)

// ErrMissingAPIKey is returned by every call when no API key is configured.
var ErrMissingAPIKey = errors.New("gemini: API key is not configured")

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("gemini: empty response")

// Options configures a Client.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL string
}

// Client wraps a genai client bound to one model.
type Client struct {
	genai *genai.Client
	model string
}

// New creates a Client. A blank API key yields a client whose calls all fail
// with ErrMissingAPIKey instead of an error here.
func New(ctx context.Context, opts Options) (*Client, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		return nil, errors.New("gemini: model is required")
	}
	c := &Client{model: model}

	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return c, nil
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.genai = client
	return c, nil
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool {
	return c.genai != nil
}

// Generate sends a single-shot prompt with the given sampling temperature.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := c.generate(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	})
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

// GroundedSearch sends prompt with the Google Search tool enabled and returns
// the answer together with the grounding sources attached to it.
func (c *Client) GroundedSearch(ctx context.Context, prompt string) (string, []aqi.Citation, error) {
	resp, err := c.generate(ctx, prompt, &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return "", nil, err
	}
	text, err := responseText(resp)
	if err != nil {
		return "", nil, err
	}
	return text, citations(resp), nil
}

// ExtractJSON asks for a JSON object whose properties are the named numeric
// fields and returns the raw JSON text.
func (c *Client) ExtractJSON(ctx context.Context, prompt string, fields []string) ([]byte, error) {
	props := make(map[string]*genai.Schema, len(fields))
	for _, f := range fields {
		props[f] = &genai.Schema{Type: genai.TypeNumber}
	}
	resp, err := c.generate(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: props,
		},
	})
	if err != nil {
		return nil, err
	}
	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

func (c *Client) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if c.genai == nil {
		return nil, ErrMissingAPIKey
	}
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return resp, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// citations flattens the first candidate's grounding chunks, dropping chunks
// with neither a URI nor a title and repeated URIs.
func citations(resp *genai.GenerateContentResponse) []aqi.Citation {
	out := make([]aqi.Citation, 0)
	if resp == nil || len(resp.Candidates) == 0 {
		return out
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return out
	}
	seen := make(map[string]bool)
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		c := aqi.Citation{URI: chunk.Web.URI, Title: chunk.Web.Title}
		if c.URI == "" && c.Title == "" {
			continue
		}
		if c.URI != "" {
			if seen[c.URI] {
				continue
			}
			seen[c.URI] = true
		}
		out = append(out, c)
	}
	return out
}
