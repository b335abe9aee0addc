package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperengineering/steward/internal/types"
)

// ListMessages fetches one page of AI-to-AI messages. Supported filters:
// "threadId", "direction".
func (c *Client) ListMessages(ctx context.Context, agenticID string, p ListParams) (Page[types.Message], error) {
	return listResource[types.Message](ctx, c, profilePath(agenticID, "messages"), "messages", p)
}

// MessageInput is the request body for sending a message.
type MessageInput struct {
	To       string `json:"to"`
	Body     string `json:"body"`
	ThreadID string `json:"threadId,omitempty"`
}

// SendMessage sends a message to another profile.
func (c *Client) SendMessage(ctx context.Context, agenticID string, in MessageInput) error {
	if strings.TrimSpace(in.To) == "" {
		return fmt.Errorf("%w: recipient is required", ErrValidation)
	}
	if strings.TrimSpace(in.Body) == "" {
		return fmt.Errorf("%w: message body is required", ErrValidation)
	}
	return c.post(ctx, profilePath(agenticID, "messages"), in, nil)
}

// ListThreads fetches one page of message threads.
func (c *Client) ListThreads(ctx context.Context, agenticID string, p ListParams) (Page[types.Thread], error) {
	return listResource[types.Thread](ctx, c, profilePath(agenticID, "threads"), "threads", p)
}
