package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hyperengineering/steward/internal/types"
)

// MemoryInput is the request body for storing a memory.
type MemoryInput struct {
	Content    string  `json:"content"`
	Category   string  `json:"category,omitempty"`
	Importance float64 `json:"importance,omitempty"`
}

// ListMemories fetches one page of stored memories. Supported filters:
// "category".
func (c *Client) ListMemories(ctx context.Context, agenticID string, p ListParams) (Page[types.Memory], error) {
	return listResource[types.Memory](ctx, c, profilePath(agenticID, "memory"), "memories", p)
}

// SearchMemories runs a semantic search over a profile's memories.
func (c *Client) SearchMemories(ctx context.Context, agenticID, query string, limit int) ([]types.Memory, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrValidation)
	}
	q := url.Values{"q": {query}}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	var out struct {
		Memories []types.Memory `json:"memories"`
	}
	if err := c.get(ctx, profilePath(agenticID, "memory", "search"), q, &out); err != nil {
		return nil, err
	}
	return out.Memories, nil
}

// CreateMemory stores a new memory entry.
func (c *Client) CreateMemory(ctx context.Context, agenticID string, in MemoryInput) error {
	if strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	return c.post(ctx, profilePath(agenticID, "memory"), in, nil)
}

// DeleteMemory removes a memory entry.
func (c *Client) DeleteMemory(ctx context.Context, agenticID, memoryID string) error {
	return c.delete(ctx, profilePath(agenticID, "memory", memoryID))
}

// ListKnowledge fetches one page of the curated knowledge base. Supported
// filters: "topic".
func (c *Client) ListKnowledge(ctx context.Context, agenticID string, p ListParams) (Page[types.KnowledgeItem], error) {
	return listResource[types.KnowledgeItem](ctx, c, profilePath(agenticID, "knowledge"), "knowledge", p)
}

// KnowledgeInput is the request body for adding a knowledge item.
type KnowledgeInput struct {
	Topic   string `json:"topic"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// AddKnowledge adds an item to the knowledge base.
func (c *Client) AddKnowledge(ctx context.Context, agenticID string, in KnowledgeInput) error {
	if strings.TrimSpace(in.Topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrValidation)
	}
	return c.post(ctx, profilePath(agenticID, "knowledge"), in, nil)
}

// DeleteKnowledge removes a knowledge item.
func (c *Client) DeleteKnowledge(ctx context.Context, agenticID, itemID string) error {
	return c.delete(ctx, profilePath(agenticID, "knowledge", itemID))
}
