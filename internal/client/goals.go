package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperengineering/steward/internal/types"
)

// GoalInput is the request body for creating or updating a goal.
type GoalInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Priority    int              `json:"priority,omitempty"`
	Status      types.GoalStatus `json:"status,omitempty"`
}

// ListGoals fetches one page of a profile's goals. Supported filters:
// "status".
func (c *Client) ListGoals(ctx context.Context, agenticID string, p ListParams) (Page[types.Goal], error) {
	return listResource[types.Goal](ctx, c, profilePath(agenticID, "goals"), "goals", p)
}

// CreateGoal creates a goal. The title is required; the check happens
// client-side so an empty form never reaches the network.
func (c *Client) CreateGoal(ctx context.Context, agenticID string, in GoalInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	return c.post(ctx, profilePath(agenticID, "goals"), in, nil)
}

// UpdateGoal replaces a goal's mutable fields.
func (c *Client) UpdateGoal(ctx context.Context, agenticID, goalID string, in GoalInput) error {
	return c.put(ctx, profilePath(agenticID, "goals", goalID), in, nil)
}

// SetGoalStatus transitions a goal via the server; the client never flips
// status locally.
func (c *Client) SetGoalStatus(ctx context.Context, agenticID, goalID string, status types.GoalStatus) error {
	body := map[string]types.GoalStatus{"status": status}
	return c.put(ctx, profilePath(agenticID, "goals", goalID), body, nil)
}

// DeleteGoal removes a goal.
func (c *Client) DeleteGoal(ctx context.Context, agenticID, goalID string) error {
	return c.delete(ctx, profilePath(agenticID, "goals", goalID))
}
