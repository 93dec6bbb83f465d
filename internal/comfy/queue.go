package comfy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// QueueState tags a QueueStatus.
type QueueState int

const (
	// QueueUnavailable means the server could not be asked or answered
	// with something unreadable. Count is meaningless.
	QueueUnavailable QueueState = iota
	// QueueOccupied means Running and Pending are known (possibly zero).
	QueueOccupied
)

// QueueStatus is the result of a queue check.
type QueueStatus struct {
	State   QueueState
	Running int
	Pending int
	Err     error // set when State is QueueUnavailable
}

// Count returns running + pending. Zero when unavailable.
func (s QueueStatus) Count() int {
	if s.State != QueueOccupied {
		return 0
	}
	return s.Running + s.Pending
}

// Busy reports whether the server is known to have work queued.
func (s QueueStatus) Busy() bool {
	return s.State == QueueOccupied && s.Count() > 0
}

// Available reports whether the occupancy is known.
func (s QueueStatus) Available() bool { return s.State == QueueOccupied }

func (s QueueStatus) String() string {
	if s.State != QueueOccupied {
		return fmt.Sprintf("unavailable (%v)", s.Err)
	}
	return fmt.Sprintf("%d running, %d pending", s.Running, s.Pending)
}

// promptInfo is the GET /prompt answer. Stock ComfyUI only sends
// exec_info; the queue arrays appear on builds and proxies that inline them.
type promptInfo struct {
	ExecInfo struct {
		QueueRemaining *int `json:"queue_remaining"`
	} `json:"exec_info"`
	QueueRunning []json.RawMessage `json:"queue_running"`
	QueuePending []json.RawMessage `json:"queue_pending"`
}

// queueInfo is the GET /queue answer.
type queueInfo struct {
	QueueRunning []json.RawMessage `json:"queue_running"`
	QueuePending []json.RawMessage `json:"queue_pending"`
}

// QueueStatus asks the server how much work it holds. It never returns an
// error: transport, status, and decode failures yield QueueUnavailable.
//
// Sources, in order: the arrays in GET /prompt; the arrays in GET /queue;
// exec_info.queue_remaining from GET /prompt counted as pending. When none
// is present the queue is reported empty.
func (c *Client) QueueStatus(ctx context.Context) QueueStatus {
	var p promptInfo
	if err := c.doJSONRequest(ctx, http.MethodGet, "/prompt", nil, &p); err != nil {
		return QueueStatus{State: QueueUnavailable, Err: err}
	}
	if p.QueueRunning != nil || p.QueuePending != nil {
		return occupied(len(p.QueueRunning), len(p.QueuePending))
	}

	var q queueInfo
	if err := c.doJSONRequest(ctx, http.MethodGet, "/queue", nil, &q); err == nil {
		return occupied(len(q.QueueRunning), len(q.QueuePending))
	} else if ctx.Err() != nil {
		return QueueStatus{State: QueueUnavailable, Err: ctx.Err()}
	}

	if r := p.ExecInfo.QueueRemaining; r != nil && *r > 0 {
		return occupied(0, *r)
	}
	return occupied(0, 0)
}

func occupied(running, pending int) QueueStatus {
	return QueueStatus{State: QueueOccupied, Running: running, Pending: pending}
}
