package client

import (
	"context"

	"github.com/hyperengineering/steward/internal/types"
)

// LearningConfig fetches the self-learning configuration.
func (c *Client) LearningConfig(ctx context.Context, agenticID string) (*types.LearningConfig, error) {
	var out struct {
		Config types.LearningConfig `json:"config"`
	}
	if err := c.get(ctx, profilePath(agenticID, "self-learning", "config"), nil, &out); err != nil {
		return nil, err
	}
	return &out.Config, nil
}

// UpdateLearningConfig replaces the self-learning configuration.
func (c *Client) UpdateLearningConfig(ctx context.Context, agenticID string, cfg types.LearningConfig) error {
	return c.put(ctx, profilePath(agenticID, "self-learning", "config"), cfg, nil)
}

// LearningStats fetches self-learning summary counters.
func (c *Client) LearningStats(ctx context.Context, agenticID string) (*types.LearningStats, error) {
	var out types.LearningStats
	if err := c.get(ctx, profilePath(agenticID, "self-learning", "stats"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingReviews fetches one page of self-learning items awaiting review.
func (c *Client) PendingReviews(ctx context.Context, agenticID string, p ListParams) (Page[types.PendingReview], error) {
	return listResource[types.PendingReview](ctx, c,
		profilePath(agenticID, "self-learning", "pending-review"), "reviews", p)
}

// ApproveReview accepts one pending self-learning item.
func (c *Client) ApproveReview(ctx context.Context, agenticID, reviewID string) error {
	return c.post(ctx, profilePath(agenticID, "self-learning", "pending-review", reviewID, "approve"), nil, nil)
}

// RejectReview discards one pending self-learning item.
func (c *Client) RejectReview(ctx context.Context, agenticID, reviewID string) error {
	return c.post(ctx, profilePath(agenticID, "self-learning", "pending-review", reviewID, "reject"), nil, nil)
}
