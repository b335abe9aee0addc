package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// ListParams describes one page of a filtered collection query.
type ListParams struct {
	Limit  int
	Offset int

	// Filters maps a query parameter to one or more values (multi-select
	// category chips serialize as repeated parameters).
	Filters map[string][]string

	// Search is the free-text query. It is only ever set on explicit
	// submit, never per keystroke.
	Search string
}

// WithFilter returns a copy of p with the given filter set.
func (p ListParams) WithFilter(key string, values ...string) ListParams {
	filters := make(map[string][]string, len(p.Filters)+1)
	for k, v := range p.Filters {
		filters[k] = v
	}
	filters[key] = values
	p.Filters = filters
	return p
}

// HasFilters reports whether any filter or search narrows the collection.
func (p ListParams) HasFilters() bool {
	if p.Search != "" {
		return true
	}
	for _, vals := range p.Filters {
		for _, v := range vals {
			if v != "" {
				return true
			}
		}
	}
	return false
}

// Values serializes the params into a query string. Empty and zero values
// are omitted so the baseline query stays clean.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	for key, vals := range p.Filters {
		for _, v := range vals {
			if v != "" {
				q.Add(key, v)
			}
		}
	}
	return q
}

// Page is one decoded page of a list response.
type Page[T any] struct {
	Items []T
	Total int
}

// decodePage unwraps the collection envelope { <key>: T[], total?: number }.
// A missing total falls back to the item count.
func decodePage[T any](data []byte, key string) (Page[T], error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Page[T]{}, fmt.Errorf("decode envelope: %w", err)
	}

	var page Page[T]
	itemsRaw, ok := raw[key]
	if !ok {
		return Page[T]{}, fmt.Errorf("decode envelope: missing %q collection", key)
	}
	if err := json.Unmarshal(itemsRaw, &page.Items); err != nil {
		return Page[T]{}, fmt.Errorf("decode %q items: %w", key, err)
	}

	if totalRaw, ok := raw["total"]; ok {
		if err := json.Unmarshal(totalRaw, &page.Total); err != nil {
			return Page[T]{}, fmt.Errorf("decode total: %w", err)
		}
	} else {
		page.Total = len(page.Items)
	}
	return page, nil
}

// listResource fetches and unwraps one page of a collection endpoint.
func listResource[T any](ctx context.Context, c *Client, path, key string, p ListParams) (Page[T], error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, p.Values(), &raw); err != nil {
		return Page[T]{}, err
	}
	return decodePage[T](raw, key)
}
