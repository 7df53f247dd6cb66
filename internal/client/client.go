// Package client talks to the generation API and keeps a local view of one session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/fredke/backend/internal/service/chat"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Fields  []chatservice.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// Client is a thin HTTP client for the /api endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server rooted at baseURL.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		// generation may take minutes; the server bounds it
		httpClient = &http.Client{Timeout: 3 * time.Minute}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Generate submits one prompt for the session.
func (c *Client) Generate(ctx context.Context, sessionID, prompt string) (chatservice.GenerateResult, error) {
	body, err := json.Marshal(chatservice.GenerateRequest{Prompt: prompt, SessionID: sessionID})
	if err != nil {
		return chatservice.GenerateResult{}, err
	}

	var result chatservice.GenerateResult
	if err := c.do(ctx, http.MethodPost, "/api/generate", body, &result); err != nil {
		return chatservice.GenerateResult{}, err
	}
	return result, nil
}

// Messages fetches the session log oldest first.
func (c *Client) Messages(ctx context.Context, sessionID string) ([]chat.Message, error) {
	var messages []chat.Message
	if err := c.do(ctx, http.MethodGet, "/api/messages/"+url.PathEscape(sessionID), nil, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	return messages, nil
}

// Clear deletes the session log on the server.
func (c *Client) Clear(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/messages/"+url.PathEscape(sessionID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var payload struct {
		Message string                   `json:"message"`
		Errors  []chatservice.FieldError `json:"errors"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload); err == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		}
		apiErr.Fields = payload.Errors
	}
	return apiErr
}
