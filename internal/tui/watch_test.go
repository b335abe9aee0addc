package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hyperengineering/steward/internal/client"
	"github.com/hyperengineering/steward/internal/panel"
	"github.com/hyperengineering/steward/internal/stream"
	"github.com/hyperengineering/steward/internal/types"
)

// cannedFetch serves one fixed page (or error) to the audit tail panel.
type cannedFetch struct {
	page client.Page[types.AuditEntry]
	err  error
}

func (f *cannedFetch) fn(ctx context.Context, p client.ListParams) (client.Page[types.AuditEntry], error) {
	if f.err != nil {
		return client.Page[types.AuditEntry]{}, f.err
	}
	return f.page, nil
}

func testModel(f *cannedFetch) Model {
	m := New(nil, "atlas", time.Second, nil)
	m.tail = panel.New(panel.Config[types.AuditEntry]{Fetch: f.fn, Limit: tailSize})
	return m
}

// loadedModel seeds the tail and marks the first refresh done.
func loadedModel(t *testing.T, f *cannedFetch, status *types.MonitorStatus) Model {
	t.Helper()
	m := testModel(f)
	if err := m.tail.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	next, _ := m.Update(refreshMsg{status: status})
	return next.(Model)
}

func entry(summary string) types.AuditEntry {
	return types.AuditEntry{
		ID:        summary,
		AgenticID: "atlas",
		Category:  types.AuditMutation,
		Summary:   summary,
		CreatedAt: time.Now(),
	}
}

func page(total int, entries ...types.AuditEntry) client.Page[types.AuditEntry] {
	return client.Page[types.AuditEntry]{Items: entries, Total: total}
}

func TestRefreshPopulatesView(t *testing.T) {
	f := &cannedFetch{page: page(1, entry("goal created"))}
	m := loadedModel(t, f, &types.MonitorStatus{AgenticID: "atlas", State: "running", ActiveGoals: 2})

	view := m.View()
	if !strings.Contains(view, "goal created") {
		t.Fatalf("view missing audit entry:\n%s", view)
	}
	if !strings.Contains(view, "running") {
		t.Fatalf("view missing state:\n%s", view)
	}
	if !strings.Contains(view, "1 entries total") {
		t.Fatalf("view missing total:\n%s", view)
	}
}

func TestBackgroundRefreshFailureKeepsLastGoodData(t *testing.T) {
	f := &cannedFetch{page: page(1, entry("first"))}
	m := loadedModel(t, f, &types.MonitorStatus{State: "running"})

	f.err = errFake
	_ = m.tail.Reload(context.Background())
	next, _ := m.Update(refreshMsg{err: errFake})
	m = next.(Model)

	if m.err != nil {
		t.Fatal("background failure leaked into foreground error")
	}
	if !strings.Contains(m.View(), "first") {
		t.Fatal("stale-but-valid data was dropped")
	}
}

func TestInitialLoadFailureSurfacesError(t *testing.T) {
	m := testModel(&cannedFetch{err: errFake})
	next, _ := m.Update(refreshMsg{err: errFake})
	m = next.(Model)

	if m.err == nil {
		t.Fatal("initial failure should surface")
	}
	if !strings.Contains(m.View(), "error:") {
		t.Fatalf("view missing error:\n%s", m.View())
	}
}

func TestPushPrependsForOwnProfileOnly(t *testing.T) {
	f := &cannedFetch{page: page(5, entry("existing"))}
	m := loadedModel(t, f, &types.MonitorStatus{State: "running"})

	next, _ := m.Update(pushMsg(stream.AuditEvent{AgenticID: "atlas", Entry: entry("pushed")}))
	m = next.(Model)
	snap := m.tail.Snapshot()
	if len(snap.Items) != 2 || snap.Items[0].Summary != "pushed" {
		t.Fatalf("push not prepended: %+v", snap.Items)
	}
	if snap.Total != 6 {
		t.Fatalf("total = %d, want 6", snap.Total)
	}

	next, _ = m.Update(pushMsg(stream.AuditEvent{AgenticID: "other", Entry: entry("foreign")}))
	m = next.(Model)
	snap = m.tail.Snapshot()
	if len(snap.Items) != 2 || snap.Total != 6 {
		t.Fatal("event for another profile mutated the view")
	}
}

func TestPushCapsTail(t *testing.T) {
	entries := make([]types.AuditEntry, tailSize)
	for i := range entries {
		entries[i] = entry("old")
	}
	f := &cannedFetch{page: page(tailSize, entries...)}
	m := loadedModel(t, f, &types.MonitorStatus{State: "running"})

	next, _ := m.Update(pushMsg(stream.AuditEvent{AgenticID: "atlas", Entry: entry("new")}))
	m = next.(Model)
	tail := m.tailEntries()
	if len(tail) != tailSize {
		t.Fatalf("tail grew past cap: %d", len(tail))
	}
	if tail[0].Summary != "new" {
		t.Fatal("newest entry not at head")
	}
}

func TestQuitKey(t *testing.T) {
	m := testModel(&cannedFetch{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q did not quit")
	}
}

var errFake = errTest("backend unreachable")

type errTest string

func (e errTest) Error() string { return string(e) }
