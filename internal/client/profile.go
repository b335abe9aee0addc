package client

import (
	"context"

	"github.com/hyperengineering/steward/internal/types"
)

// Personality fetches the profile's personality configuration.
func (c *Client) Personality(ctx context.Context, agenticID string) (*types.Personality, error) {
	var out types.Personality
	if err := c.get(ctx, profilePath(agenticID, "personality"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePersonality replaces the personality configuration.
func (c *Client) UpdatePersonality(ctx context.Context, agenticID string, p types.Personality) error {
	return c.put(ctx, profilePath(agenticID, "personality"), p, nil)
}

// ContactScope fetches the contact scoping rules. The backend nests the
// object under a named key on this endpoint.
func (c *Client) ContactScope(ctx context.Context, agenticID string) (*types.ContactScope, error) {
	var out struct {
		ContactScope types.ContactScope `json:"contactScope"`
	}
	if err := c.get(ctx, profilePath(agenticID, "contact-scope"), nil, &out); err != nil {
		return nil, err
	}
	return &out.ContactScope, nil
}

// UpdateContactScope replaces the contact scoping rules.
func (c *Client) UpdateContactScope(ctx context.Context, agenticID string, s types.ContactScope) error {
	return c.put(ctx, profilePath(agenticID, "contact-scope"), s, nil)
}

// MasterContact fetches the profile's escalation contact.
func (c *Client) MasterContact(ctx context.Context, agenticID string) (*types.MasterContact, error) {
	var out types.MasterContact
	if err := c.get(ctx, profilePath(agenticID, "master-contact"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMasterContact replaces the escalation contact.
func (c *Client) UpdateMasterContact(ctx context.Context, agenticID string, m types.MasterContact) error {
	return c.put(ctx, profilePath(agenticID, "master-contact"), m, nil)
}

// Routing fetches the hierarchy routing configuration.
func (c *Client) Routing(ctx context.Context, agenticID string) (*types.RoutingConfig, error) {
	var out types.RoutingConfig
	if err := c.get(ctx, profilePath(agenticID, "routing"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRouting replaces the routing configuration.
func (c *Client) UpdateRouting(ctx context.Context, agenticID string, r types.RoutingConfig) error {
	return c.put(ctx, profilePath(agenticID, "routing"), r, nil)
}

// Hierarchy fetches the agent tree rooted at this profile.
func (c *Client) Hierarchy(ctx context.Context, agenticID string) (*types.HierarchyNode, error) {
	var out types.HierarchyNode
	if err := c.get(ctx, profilePath(agenticID, "hierarchy"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Children fetches the profile's direct child agents.
func (c *Client) Children(ctx context.Context, agenticID string, p ListParams) (Page[types.TeamMember], error) {
	return listResource[types.TeamMember](ctx, c, profilePath(agenticID, "children"), "children", p)
}

// Team fetches the profile's sibling team members.
func (c *Client) Team(ctx context.Context, agenticID string, p ListParams) (Page[types.TeamMember], error) {
	return listResource[types.TeamMember](ctx, c, profilePath(agenticID, "team"), "team", p)
}
