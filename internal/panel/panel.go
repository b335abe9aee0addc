// Package panel implements the list-resource interaction contract shared by
// every console view: fetch a filtered, paginated collection, mutate items
// through the backend, and reconcile by refetching server truth.
//
// One Panel instance owns one collection's view state. Nothing is cached
// beyond the panel's lifetime and nothing is shared between panels; cross-
// panel consistency comes from each panel independently refetching.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hyperengineering/steward/internal/client"
)

// FetchFunc loads one page of the collection for the given params.
type FetchFunc[T any] func(ctx context.Context, p client.ListParams) (client.Page[T], error)

// ConfirmFunc asks the operator to approve a destructive action. Returning
// false must prevent any network request from being issued.
type ConfirmFunc func(prompt string) bool

var (
	// ErrBusy is returned when an item already has a mutation in flight.
	ErrBusy = errors.New("item busy")

	// ErrConfirmDenied is returned when the operator declines a
	// destructive action. No request was sent.
	ErrConfirmDenied = errors.New("confirmation denied")
)

// Config configures a Panel.
type Config[T any] struct {
	Fetch FetchFunc[T]

	// Limit is the page size. Defaults to 50.
	Limit int

	// Offset, Filters, and Search seed the view state so a caller can
	// start from a flag-supplied position instead of page zero. They are
	// used as-is by the first load; later filter changes go through the
	// usual reset.
	Offset  int
	Filters map[string][]string
	Search  string

	// Confirm gates destructive actions. A nil Confirm denies everything,
	// which is the safe default for non-interactive callers.
	Confirm ConfirmFunc

	Logger *slog.Logger
}

// Panel holds the view state of one list resource.
type Panel[T any] struct {
	fetch   FetchFunc[T]
	confirm ConfirmFunc
	logger  *slog.Logger

	mu      sync.Mutex
	limit   int
	offset  int
	filters map[string][]string
	search  string

	items   []T
	total   int
	loading bool
	err     error

	// gen invalidates in-flight loads: a superseded load's context is
	// cancelled and its late result discarded, so a slow stale response
	// can never overwrite a newer one.
	gen    uint64
	cancel context.CancelFunc

	busy map[string]bool
}

// New creates a Panel around a fetch function.
func New[T any](cfg Config[T]) *Panel[T] {
	limit := cfg.Limit
	if limit <= 0 {
		limit = 50
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	offset := cfg.Offset
	if offset < 0 {
		offset = 0
	}
	filters := make(map[string][]string, len(cfg.Filters))
	for k, v := range cfg.Filters {
		filters[k] = append([]string(nil), v...)
	}
	return &Panel[T]{
		fetch:   cfg.Fetch,
		confirm: cfg.Confirm,
		logger:  logger,
		limit:   limit,
		offset:  offset,
		filters: filters,
		search:  cfg.Search,
		busy:    make(map[string]bool),
	}
}

// Snapshot is an immutable copy of panel state for rendering.
type Snapshot[T any] struct {
	Items   []T
	Total   int
	Loading bool
	Err     error

	Offset  int
	Limit   int
	CanNext bool
	CanPrev bool

	Search  string
	Filters map[string][]string
}

// Snapshot returns a copy of the current state.
func (p *Panel[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := make([]T, len(p.items))
	copy(items, p.items)
	filters := make(map[string][]string, len(p.filters))
	for k, v := range p.filters {
		filters[k] = append([]string(nil), v...)
	}

	return Snapshot[T]{
		Items:   items,
		Total:   p.total,
		Loading: p.loading,
		Err:     p.err,
		Offset:  p.offset,
		Limit:   p.limit,
		CanNext: p.offset+p.limit < p.total,
		CanPrev: p.offset > 0,
		Search:  p.search,
		Filters: filters,
	}
}

// Busy reports whether the given item has a mutation in flight.
func (p *Panel[T]) Busy(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy[id]
}

type loadMode int

const (
	modeReplace loadMode = iota
	modeAppend
)

// load issues one fetch using the live filter/offset state. Background loads
// (poll ticks) log failures instead of surfacing them, so a flaky 10s timer
// does not spam the operator.
func (p *Panel[T]) load(ctx context.Context, mode loadMode, background bool) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	if p.cancel != nil {
		p.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.loading = true
	params := client.ListParams{
		Limit:   p.limit,
		Offset:  p.offset,
		Search:  p.search,
		Filters: p.filters,
	}
	p.mu.Unlock()

	page, err := p.fetch(loadCtx, params)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		// A newer load superseded this one; drop the result.
		return nil
	}
	p.loading = false

	if err != nil {
		// Prior items stay untouched: a failed fetch must remain
		// distinguishable from an empty result.
		if background {
			p.logger.Warn("background refresh failed",
				"component", "panel",
				"error", err,
			)
			return nil
		}
		p.err = err
		return err
	}

	if mode == modeAppend {
		p.items = append(p.items, page.Items...)
	} else {
		p.items = page.Items
	}
	p.total = page.Total
	p.err = nil
	return nil
}

// Reload refetches the current page, replacing items.
func (p *Panel[T]) Reload(ctx context.Context) error {
	return p.load(ctx, modeReplace, false)
}

// Next advances to the next page. It is a no-op when already on the last
// page.
func (p *Panel[T]) Next(ctx context.Context) error {
	p.mu.Lock()
	if p.offset+p.limit >= p.total {
		p.mu.Unlock()
		return nil
	}
	p.offset += p.limit
	p.mu.Unlock()
	return p.load(ctx, modeReplace, false)
}

// Prev steps back one page. It is a no-op on the first page.
func (p *Panel[T]) Prev(ctx context.Context) error {
	p.mu.Lock()
	if p.offset == 0 {
		p.mu.Unlock()
		return nil
	}
	p.offset -= p.limit
	if p.offset < 0 {
		p.offset = 0
	}
	p.mu.Unlock()
	return p.load(ctx, modeReplace, false)
}

// LoadMore fetches the next page and appends it (infinite-scroll style).
func (p *Panel[T]) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.offset+p.limit >= p.total {
		p.mu.Unlock()
		return nil
	}
	p.offset += p.limit
	p.mu.Unlock()
	return p.load(ctx, modeAppend, false)
}

// SetSearch submits a free-text query. The offset resets to zero before the
// fetch; a stale page never survives a filter change.
func (p *Panel[T]) SetSearch(ctx context.Context, query string) error {
	p.mu.Lock()
	p.search = query
	p.offset = 0
	p.mu.Unlock()
	return p.load(ctx, modeReplace, false)
}

// SetFilter replaces a filter's values and reloads from page zero.
func (p *Panel[T]) SetFilter(ctx context.Context, key string, values ...string) error {
	p.mu.Lock()
	if len(values) == 0 {
		delete(p.filters, key)
	} else {
		p.filters[key] = values
	}
	p.offset = 0
	p.mu.Unlock()
	return p.load(ctx, modeReplace, false)
}

// ToggleFilter flips membership of value in the filter's set (category-chip
// behavior) and reloads from page zero.
func (p *Panel[T]) ToggleFilter(ctx context.Context, key, value string) error {
	p.mu.Lock()
	current := p.filters[key]
	found := -1
	for i, v := range current {
		if v == value {
			found = i
			break
		}
	}
	if found >= 0 {
		current = append(current[:found], current[found+1:]...)
	} else {
		current = append(current, value)
	}
	if len(current) == 0 {
		delete(p.filters, key)
	} else {
		p.filters[key] = current
	}
	p.offset = 0
	p.mu.Unlock()
	return p.load(ctx, modeReplace, false)
}

// ClearFilters resets every filter, the search string, and the offset in
// one atomic update, then reloads.
func (p *Panel[T]) ClearFilters(ctx context.Context) error {
	p.mu.Lock()
	p.filters = make(map[string][]string)
	p.search = ""
	p.offset = 0
	p.mu.Unlock()
	return p.load(ctx, modeReplace, false)
}

// Mutate runs a mutation for one item and reconciles the list against
// server truth before returning. Only the target item is marked busy;
// unrelated items stay interactive.
func (p *Panel[T]) Mutate(ctx context.Context, id string, fn func(ctx context.Context) error) error {
	p.mu.Lock()
	if p.busy[id] {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrBusy, id)
	}
	p.busy[id] = true
	p.mu.Unlock()

	err := fn(ctx)

	p.mu.Lock()
	delete(p.busy, id)
	p.mu.Unlock()

	if err != nil {
		return err
	}

	// The mutation is not complete until the list reflects server state.
	return p.Reload(ctx)
}

// Delete runs a destructive mutation, gated on operator confirmation. When
// confirmation is denied no request is issued.
func (p *Panel[T]) Delete(ctx context.Context, id, prompt string, fn func(ctx context.Context) error) error {
	if p.confirm == nil || !p.confirm(prompt) {
		return ErrConfirmDenied
	}
	return p.Mutate(ctx, id, fn)
}

// ApplyPush merges a pushed item into the view. The item is prepended only
// when the panel shows the unfiltered first page; any active filter or
// forward paging means only the total counter moves, preserving filter and
// page correctness over freshness.
func (p *Panel[T]) ApplyPush(item T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total++
	if p.offset != 0 || p.search != "" || len(p.filters) > 0 {
		return
	}
	p.items = append([]T{item}, p.items...)
}

// Poll refetches the current page every interval until ctx is cancelled.
// Each tick reads the live filter/offset state at fire time. Failures are
// logged, never surfaced. Blocks; run it in a goroutine.
func (p *Panel[T]) Poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.load(ctx, modeReplace, true)
		}
	}
}
