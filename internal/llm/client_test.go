package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ybertrand/shopseo/internal/logger"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"leading whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func testClient(srv *httptest.Server) *Client {
	return NewClient(&Config{Model: "test-model", APIKey: "k", BaseURL: srv.URL})
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  Bonjour  "}}]}`))
	}))
	defer srv.Close()

	got, err := testClient(srv).Complete(context.Background(), []Message{{Role: "user", Content: "salut"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Bonjour" {
		t.Errorf("completion = %q, want trimmed content", got)
	}
}

func TestCompleteTool(t *testing.T) {
	schema := json.RawMessage(`{"type":"object"}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if len(req.Tools) != 1 || req.Tools[0].Function.Name != "set_alt_texts" {
			t.Errorf("tools = %+v, want one set_alt_texts function", req.Tools)
		}
		if req.ToolChoice == nil {
			t.Error("expected a forced tool choice")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"tool_calls":[{"function":{"arguments":"{\"alt\":\"basket\"}"}}]}}]}`))
	}))
	defer srv.Close()

	var out struct {
		Alt string `json:"alt"`
	}
	if err := testClient(srv).CompleteTool(context.Background(), nil, "set_alt_texts", schema, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Alt != "basket" {
		t.Errorf("alt = %q, want basket", out.Alt)
	}
}

// Gateways that ignore the tools block answer in plain text, often fenced.
func TestCompleteTool_PlainJSONFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"` + "```json\\n{\\\"alt\\\":\\\"basket\\\"}\\n```" + `"}}]}`))
	}))
	defer srv.Close()

	var out struct {
		Alt string `json:"alt"`
	}
	if err := testClient(srv).CompleteTool(context.Background(), nil, "set_alt_texts", json.RawMessage(`{}`), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Alt != "basket" {
		t.Errorf("alt = %q, want basket", out.Alt)
	}
}

func TestSend_ForwardsRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Request-ID"); got != "req-123" {
			t.Errorf("X-Request-ID = %q, want req-123", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	ctx := logger.WithFields(context.Background(), logger.Fields{logger.FieldRequestID: "req-123"})
	if _, err := testClient(srv).Complete(ctx, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSend_SentinelErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusPaymentRequired, ErrInsufficientCredits},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))
		_, err := testClient(srv).Complete(context.Background(), nil)
		srv.Close()

		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: error = %v, want %v", tt.status, err, tt.want)
		}
	}
}

func TestSend_GatewayErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"modèle inconnu","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).Complete(context.Background(), nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := err.Error(); got != "llm error 400: modèle inconnu" {
		t.Errorf("error = %q", got)
	}
}
