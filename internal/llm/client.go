// Package llm is a focused client for hosted chat-completion endpoints with
// server-sent-event streaming. It speaks both the Azure deployment URL form
// (api-key header, api-version query) and the plain OpenAI form (Bearer
// token), returning responses as an incremental ChatStream.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Message is one role/content pair sent as completion context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries everything one streaming completion call needs.
type ChatRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// ChatStream iterates the fragments of a streamed completion. A fragment
// with empty Content is valid: the provider sent a delta without text.
//
//	for stream.Next() {
//	    buf.WriteString(stream.Content())
//	}
//	if err := stream.Err(); err != nil { ... }
type ChatStream interface {
	Next() bool
	Content() string
	Err() error
	Close() error
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("llm: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Client calls a single chat-completion endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	apiVersion string
	azureStyle bool
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithOpenAIStyle switches from the Azure deployment URL form to the plain
// /v1/chat/completions path with Bearer authorization.
func WithOpenAIStyle() Option {
	return func(c *Client) {
		c.azureStyle = false
	}
}

// NewClient builds a Client for the given endpoint and key. Both are
// required; the caller treats a failure here as fatal at startup.
func NewClient(endpoint, apiKey, apiVersion string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("llm: endpoint must not be empty")
	}
	if apiKey == "" {
		return nil, errors.New("llm: api key must not be empty")
	}

	c := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		apiVersion: apiVersion,
		azureStyle: true,
		// no overall timeout: streams stay open for the whole completion
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) chatURL(model string) string {
	if c.azureStyle {
		u := c.endpoint + "/openai/deployments/" + url.PathEscape(model) + "/chat/completions"
		if c.apiVersion != "" {
			u += "?api-version=" + url.QueryEscape(c.apiVersion)
		}
		return u
	}
	if strings.HasSuffix(c.endpoint, "/v1") {
		return c.endpoint + "/chat/completions"
	}
	return c.endpoint + "/v1/chat/completions"
}

// StreamChat issues a streaming completion request and hands back the open
// stream. The caller owns the stream and must Close it.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest) (ChatStream, error) {
	body, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Stream:      true,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: marshal request: %w", err)
	}

	reqURL := c.chatURL(req.Model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.azureStyle {
		httpReq.Header.Set("api-key", c.apiKey)
	} else {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm: request failed: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		_ = res.Body.Close()
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        reqURL,
			Body:       string(buf),
		}
	}

	return newSSEStream(res.Body), nil
}

// sseStream decodes "data:" lines from a text/event-stream body. Lines that
// are not data, carry no payload, or fail to decode are skipped rather than
// treated as stream errors; "[DONE]" ends the stream.
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	content string
	err     error
	done    bool
}

func newSSEStream(body io.ReadCloser) *sseStream {
	s := &sseStream{
		body:    body,
		scanner: bufio.NewScanner(body),
	}
	s.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return s
}

func (s *sseStream) Next() bool {
	if s.done {
		return false
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}
		if payload == "[DONE]" {
			s.done = true
			return false
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		s.content = deltaContent(chunk)
		return true
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		s.err = err
	}
	return false
}

func (s *sseStream) Content() string { return s.content }

func (s *sseStream) Err() error { return s.err }

func (s *sseStream) Close() error { return s.body.Close() }

func deltaContent(chunk streamChunk) string {
	if len(chunk.Choices) == 0 {
		return ""
	}
	return chunk.Choices[0].Delta.Content
}
