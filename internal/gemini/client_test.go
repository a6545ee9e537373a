package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func fakeCompletion(text string) any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	c := New("")
	_, err := c.Generate(context.Background(), "hello")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestGenerate_Success(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		json.NewEncoder(w).Encode(fakeCompletion(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("test-key", srv.URL, "gemini-2.0-flash")
	text, err := c.Generate(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if text != `{"ok":true}` {
		t.Errorf("text = %q", text)
	}

	if !strings.Contains(gotPath, "/v1beta/models/gemini-2.0-flash:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotPath, "key=test-key") {
		t.Errorf("api key not in query: %q", gotPath)
	}
	if !strings.Contains(gotBody, "Return ONLY valid raw JSON") {
		t.Error("system instruction not prepended")
	}
	if !strings.Contains(gotBody, "analyze this") {
		t.Error("prompt not in request body")
	}
	if !strings.Contains(gotBody, `"maxOutputTokens":4096`) {
		t.Error("generation config missing maxOutputTokens")
	}
}

func TestGenerate_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("k", srv.URL, "")
	_, err := c.Generate(context.Background(), "p")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %T (%v), want *RequestError", err, err)
	}
	if reqErr.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want 429", reqErr.Status)
	}
	if reqErr.Message != "quota exceeded" {
		t.Errorf("Message = %q", reqErr.Message)
	}
}

func TestGenerate_UpstreamErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewWithBaseURL("k", srv.URL, "")
	_, err := c.Generate(context.Background(), "p")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %T, want *RequestError", err)
	}
	if reqErr.Message != "" {
		t.Errorf("Message = %q, want empty", reqErr.Message)
	}
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("k", srv.URL, "")
	_, err := c.Generate(context.Background(), "p")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestGenerate_EmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fakeCompletion(""))
	}))
	defer srv.Close()

	c := NewWithBaseURL("k", srv.URL, "")
	_, err := c.Generate(context.Background(), "p")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestGenerate_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewWithBaseURL("k", srv.URL, "")
	_, err := c.Generate(ctx, "p")
	if err == nil {
		t.Fatal("Generate succeeded with cancelled context")
	}
}
