// Package llm wraps an OpenAI-compatible chat-completions gateway. Rate
// limiting (429) and insufficient credits (402) surface as sentinel errors
// so callers can tell transient throttling from fatal billing failures.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ybertrand/shopseo/internal/logger"
)

var (
	// ErrRateLimited signals an HTTP 429 from the gateway; retry later.
	ErrRateLimited = errors.New("llm: rate limited")

	// ErrInsufficientCredits signals an HTTP 402; a human has to top up.
	ErrInsufficientCredits = errors.New("llm: insufficient credits")
)

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	client   *resty.Client
	model    string
	endpoint string
}

// Config holds configuration for the LLM client.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewClient creates an LLM gateway client.
func NewClient(cfg *Config) *Client {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Set timeout to prevent hanging requests
	client.SetTimeout(60 * time.Second)

	// Default to OpenAI compatible endpoint if not specified
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &Client{
		client:   client,
		model:    cfg.Model,
		endpoint: baseURL + "/chat/completions",
	}
}

// Model returns the model name being used.
func (c *Client) Model() string {
	return c.model
}

// Message is one chat turn sent to the gateway.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model      string     `json:"model"`
	Messages   []Message  `json:"messages"`
	MaxTokens  int        `json:"max_tokens,omitempty"`
	Tools      []toolSpec `json:"tools,omitempty"`
	ToolChoice any        `json:"tool_choice,omitempty"`
}

type toolSpec struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name       string          `json:"name"`
	Parameters json.RawMessage `json:"parameters"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the messages and returns the free-text completion.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.send(ctx, chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// CompleteTool forces a tool call with the given JSON schema and unmarshals
// the structured arguments blob into out. Gateways that ignore the tools
// block answer in plain text; those replies are parsed as JSON after
// stripping the markdown code fences models wrap around it.
func (c *Client) CompleteTool(ctx context.Context, messages []Message, name string, schema json.RawMessage, out any) error {
	req := chatRequest{
		Model:    c.model,
		Messages: messages,
		Tools: []toolSpec{{
			Type:     "function",
			Function: toolFunction{Name: name, Parameters: schema},
		}},
		ToolChoice: map[string]any{
			"type":     "function",
			"function": map[string]string{"name": name},
		},
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("llm: empty response")
	}
	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		if strings.TrimSpace(msg.Content) == "" {
			return fmt.Errorf("llm: no tool call in response")
		}
		if err := json.Unmarshal([]byte(StripCodeFences(msg.Content)), out); err != nil {
			return fmt.Errorf("llm: malformed JSON completion: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal([]byte(msg.ToolCalls[0].Function.Arguments), out); err != nil {
		return fmt.Errorf("llm: malformed tool arguments: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, req chatRequest) (*chatResponse, error) {
	r := c.client.R().SetContext(ctx)
	if id := logger.GetRequestID(ctx); id != "" {
		r.SetHeader("X-Request-ID", id)
	}

	var resp chatResponse
	httpResp, err := r.
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}

	switch httpResp.StatusCode() {
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w (429)", ErrRateLimited)
	case http.StatusPaymentRequired:
		return nil, fmt.Errorf("%w (402)", ErrInsufficientCredits)
	}
	if httpResp.IsError() {
		if resp.Error != nil {
			return nil, fmt.Errorf("llm error %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return nil, fmt.Errorf("llm error %d: %s", httpResp.StatusCode(), httpResp.Status())
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("llm error: %s", resp.Error.Message)
	}

	return &resp, nil
}

// StripCodeFences removes a surrounding markdown code fence from a model
// completion, if present.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
