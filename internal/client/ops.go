package client

import (
	"context"

	"github.com/hyperengineering/steward/internal/types"
)

// Monitor fetches the live health snapshot of a profile.
func (c *Client) Monitor(ctx context.Context, agenticID string) (*types.MonitorStatus, error) {
	var out types.MonitorStatus
	if err := c.get(ctx, profilePath(agenticID, "monitoring"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecutionHistory fetches one page of past reasoning/execution runs.
// Supported filters: "status", "kind". This is the one collection consumers
// page with append-on-scroll rather than prev/next.
func (c *Client) ExecutionHistory(ctx context.Context, agenticID string, p ListParams) (Page[types.Execution], error) {
	return listResource[types.Execution](ctx, c, profilePath(agenticID, "execution-history"), "executions", p)
}

// Pause suspends a profile's execution loop.
func (c *Client) Pause(ctx context.Context, agenticID string) error {
	body := map[string]string{"action": "pause"}
	return c.post(ctx, profilePath(agenticID, "control"), body, nil)
}

// Resume restarts a paused profile.
func (c *Client) Resume(ctx context.Context, agenticID string) error {
	body := map[string]string{"action": "resume"}
	return c.post(ctx, profilePath(agenticID, "control"), body, nil)
}
