package comfy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// PromptRequest is sent to POST /prompt.
type PromptRequest struct {
	Prompt   Workflow `json:"prompt"`
	ClientID string   `json:"client_id"`
}

// PromptResponse is returned from POST /prompt.
type PromptResponse struct {
	PromptID   string                `json:"prompt_id"`
	Number     int                   `json:"number"`
	NodeErrors map[string]NodeErrors `json:"node_errors,omitempty"`
	Error      PromptError           `json:"error"`
}

// NodeErrors lists the validation failures of one node.
type NodeErrors struct {
	Errors    []NodeError `json:"errors"`
	ClassType string      `json:"class_type"`
}

// NodeError contains error information for a specific node.
type NodeError struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Details   string      `json:"details"`
	ExtraInfo interface{} `json:"extra_info"`
}

// PromptError is the top-level error of a rejected prompt. ComfyUI sends an
// object ({"type","message","details"}); older builds send a bare string.
type PromptError struct {
	Type    string `json:"type"`
	Text    string `json:"message"`
	Details string `json:"details"`
}

// UnmarshalJSON accepts both the object and the string form.
func (e *PromptError) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Text = s
		return nil
	}
	type plain PromptError
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = PromptError(p)
	return nil
}

// Message joins the error text and details.
func (e PromptError) Message() string {
	switch {
	case e.Text != "" && e.Details != "":
		return e.Text + ": " + e.Details
	case e.Text != "":
		return e.Text
	default:
		return e.Details
	}
}

// QueuePrompt submits wf for execution.
func (c *Client) QueuePrompt(ctx context.Context, wf Workflow) (*PromptResponse, error) {
	req := PromptRequest{Prompt: wf, ClientID: c.clientID}
	var resp PromptResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/prompt", req, &resp); err != nil {
		return nil, fmt.Errorf("queue prompt: %w", err)
	}
	if msg := resp.Error.Message(); msg != "" || len(resp.NodeErrors) > 0 {
		return nil, fmt.Errorf("queue prompt: %w", &APIError{
			StatusCode: http.StatusOK,
			Message:    msg,
			NodeErrors: resp.NodeErrors,
		})
	}
	return &resp, nil
}

// SystemStats is returned from GET /system_stats.
type SystemStats struct {
	System struct {
		OS             string `json:"os"`
		PythonVersion  string `json:"python_version"`
		ComfyUIVersion string `json:"comfyui_version"`
		EmbeddedPython bool   `json:"embedded_python"`
		PytorchVersion string `json:"pytorch_version"`
	} `json:"system"`
	Devices []DeviceInfo `json:"devices"`
}

// DeviceInfo contains information about a compute device.
type DeviceInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Index     int    `json:"index"`
	VRAMTotal int64  `json:"vram_total"`
	VRAMFree  int64  `json:"vram_free"`
}

// Describe renders a one-line summary for diagnostics.
func (s *SystemStats) Describe() string {
	parts := []string{}
	if v := s.System.ComfyUIVersion; v != "" {
		parts = append(parts, "ComfyUI "+v)
	}
	if v := s.System.PythonVersion; v != "" {
		if i := strings.IndexByte(v, ' '); i > 0 {
			v = v[:i]
		}
		parts = append(parts, "Python "+v)
	}
	if len(s.Devices) > 0 {
		parts = append(parts, s.Devices[0].Name)
	}
	if len(parts) == 0 {
		return "unknown server"
	}
	return strings.Join(parts, ", ")
}

// SystemStats fetches server and device information.
func (c *Client) SystemStats(ctx context.Context) (*SystemStats, error) {
	var s SystemStats
	if err := c.doJSONRequest(ctx, http.MethodGet, "/system_stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
