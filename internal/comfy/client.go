// Package comfy talks to a ComfyUI server's HTTP API: it reads queue
// occupancy, loads API-format workflows, and queues prompts.
package comfy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fngarvin/moviegen/internal/display"
)

// Client is a ComfyUI API client bound to one server.
type Client struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
}

// NewClient returns a client for baseURL (e.g. http://127.0.0.1:8188).
// timeout bounds every request; zero means no limit.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientID:   uuid.NewString(),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the server address the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// ClientID returns the id sent with every queued prompt.
func (c *Client) ClientID() string { return c.clientID }

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Body       string
	Message    string
	NodeErrors map[string]NodeErrors
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	msg = display.Truncate(msg, 300)
	if n := len(e.NodeErrors); n > 0 {
		msg += fmt.Sprintf(" (%d node error(s))", n)
	}
	return fmt.Sprintf("ComfyUI returned %d: %s", e.StatusCode, msg)
}

// doJSONRequest sends payload (when non-nil) as JSON and decodes a 2xx
// answer into result (when non-nil). Non-2xx answers become *APIError.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, payload, result interface{}) error {
	url := c.baseURL + path

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
		var pr PromptResponse
		if json.Unmarshal(bodyBytes, &pr) == nil {
			apiErr.Message = pr.Error.Message()
			apiErr.NodeErrors = pr.NodeErrors
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}
