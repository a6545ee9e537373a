// Package gemini implements the HTTP client for the generative-language
// endpoint. The client makes exactly one attempt per call and returns the
// raw completion text unmodified; cleaning markdown fences and slicing
// JSON is the extractor's job.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 60 * time.Second

	// Prepended to every prompt so the model skips markdown and prose.
	systemInstruction = "Return ONLY valid raw JSON. No markdown. No explanation.\n\n"

	temperature     = 0.5
	maxOutputTokens = 4096
)

// ErrMissingAPIKey is returned before any network activity when the
// client was constructed without a credential.
var ErrMissingAPIKey = errors.New("missing Gemini API key: set ASTRA_GEMINI_API_KEY")

// ErrEmptyResponse is returned when the endpoint answers 200 with no
// completion text.
var ErrEmptyResponse = errors.New("empty Gemini response")

// RequestError reports a non-success HTTP status, carrying the upstream
// error message when the body contained one.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gemini request failed (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("gemini request failed (HTTP %d)", e.Status)
}

// Client calls the generative-language API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// New creates a Client with the given API key. An empty key is allowed
// at construction; Generate fails fast with ErrMissingAPIKey.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewWithBaseURL creates a client pointing at a custom base URL and
// model (used by tests and config overrides).
func NewWithBaseURL(apiKey, baseURL, model string) *Client {
	c := New(apiKey)
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	if model != "" {
		c.model = model
	}
	return c
}

// generateRequest is the JSON body for :generateContent.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateResponse mirrors the nested completion payload; only the first
// candidate's first part is consumed.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends a single prompt and returns the raw completion text.
// One attempt, no retry; recovery is the caller's concern.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{
			{Parts: []part{{Text: systemInstruction + prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		var ae apiError
		if json.Unmarshal(respBody, &ae) == nil && ae.Error.Message != "" {
			return "", &RequestError{Status: resp.StatusCode, Message: ae.Error.Message}
		}
		return "", &RequestError{Status: resp.StatusCode}
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
