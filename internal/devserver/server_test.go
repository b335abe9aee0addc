package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hyperengineering/steward/internal/client"
	"github.com/hyperengineering/steward/internal/stream"
	"github.com/hyperengineering/steward/internal/types"
)

const testToken = "dev-token"

// newTestServer stands up the full stack: store, router, HTTP listener,
// and a client SDK pointed at it. Every test below goes through the real
// wire format, so this doubles as the contract test for the client.
func newTestServer(t *testing.T) (*client.Client, *Store) {
	t.Helper()
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.CreateProfile("p1", "Primary", "orchestrator", ""); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	srv := httptest.NewServer(NewServer(store, testToken, nil).Router())
	t.Cleanup(srv.Close)

	return client.New(srv.URL, client.StaticToken(testToken)), store
}

func TestRejectsBadToken(t *testing.T) {
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.CreateProfile("p1", "Primary", "orchestrator", ""); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(NewServer(store, testToken, nil).Router())
	t.Cleanup(srv.Close)

	c := client.New(srv.URL, client.StaticToken("wrong"))
	_, err = c.ListGoals(context.Background(), "p1", client.ListParams{})
	if !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
}

func TestUnknownProfileIsNotFound(t *testing.T) {
	c, _ := newTestServer(t)
	_, err := c.ListGoals(context.Background(), "ghost", client.ListParams{})
	if !errors.Is(err, client.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestStoreErrorMappingUnwraps(t *testing.T) {
	s := NewServer(nil, "", nil)
	rec := httptest.NewRecorder()
	s.writeStoreError(rec, fmt.Errorf("load goal: %w", ErrNotFound))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("wrapped ErrNotFound mapped to %d, want 404", rec.Code)
	}
}

func TestGoalCreateThenRelist(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()

	page, err := c.ListGoals(ctx, "p1", client.ListParams{})
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("fresh profile total = %d, want 0", page.Total)
	}

	if err := c.CreateGoal(ctx, "p1", client.GoalInput{Title: "ship it", Priority: 1}); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	page, err = c.ListGoals(ctx, "p1", client.ListParams{})
	if err != nil {
		t.Fatalf("ListGoals after create: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("total=%d len=%d, want 1/1", page.Total, len(page.Items))
	}
	if page.Items[0].Title != "ship it" || page.Items[0].Status != types.GoalActive {
		t.Fatalf("unexpected goal: %+v", page.Items[0])
	}

	// Every mutation leaves an audit trail.
	audit, err := c.AuditLog(ctx, "p1", client.ListParams{})
	if err != nil {
		t.Fatalf("AuditLog: %v", err)
	}
	if audit.Total != 1 || audit.Items[0].Category != types.AuditMutation {
		t.Fatalf("audit log wrong: %+v", audit)
	}

	// Completing the goal is a server transition; the relist is the only
	// place the new status comes from.
	if err := c.SetGoalStatus(ctx, "p1", page.Items[0].ID, types.GoalCompleted); err != nil {
		t.Fatalf("SetGoalStatus: %v", err)
	}
	page, err = c.ListGoals(ctx, "p1", client.ListParams{})
	if err != nil {
		t.Fatalf("ListGoals after complete: %v", err)
	}
	if page.Items[0].Status != types.GoalCompleted {
		t.Fatalf("status = %q, want completed", page.Items[0].Status)
	}
}

func TestStatusFilterRoundTrip(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()

	for _, in := range []client.GoalInput{
		{Title: "a"},
		{Title: "b", Status: types.GoalPaused},
		{Title: "c", Status: types.GoalPaused},
	} {
		if err := c.CreateGoal(ctx, "p1", in); err != nil {
			t.Fatalf("CreateGoal: %v", err)
		}
	}

	page, err := c.ListGoals(ctx, "p1", client.ListParams{}.WithFilter("status", "paused"))
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("filtered total = %d, want 2", page.Total)
	}
	for _, g := range page.Items {
		if g.Status != types.GoalPaused {
			t.Fatalf("filter leaked status %q", g.Status)
		}
	}
}

func TestPaginationAcrossWire(t *testing.T) {
	c, store := newTestServer(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if _, err := store.CreateGoal("p1", types.Goal{Title: "g"}); err != nil {
			t.Fatal(err)
		}
	}

	page, err := c.ListGoals(ctx, "p1", client.ListParams{Limit: 3, Offset: 6})
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if page.Total != 7 || len(page.Items) != 1 {
		t.Fatalf("total=%d len=%d, want 7/1", page.Total, len(page.Items))
	}
}

func TestControlFlipsMonitorState(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()

	if err := c.Pause(ctx, "p1"); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	st, err := c.Monitor(ctx, "p1")
	if err != nil {
		t.Fatalf("Monitor: %v", err)
	}
	if st.State != "paused" {
		t.Fatalf("state = %q, want paused", st.State)
	}

	if err := c.Resume(ctx, "p1"); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	st, err = c.Monitor(ctx, "p1")
	if err != nil {
		t.Fatalf("Monitor: %v", err)
	}
	if st.State != "running" {
		t.Fatalf("state = %q, want running", st.State)
	}
}

func TestMemorySearch(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()

	for _, content := range []string{"owner likes brevity", "sync on mondays", "brevity wins"} {
		if err := c.CreateMemory(ctx, "p1", client.MemoryInput{Content: content}); err != nil {
			t.Fatalf("CreateMemory: %v", err)
		}
	}

	hits, err := c.SearchMemories(ctx, "p1", "brevity", 10)
	if err != nil {
		t.Fatalf("SearchMemories: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
}

func TestLearningReviewFlow(t *testing.T) {
	c, store := newTestServer(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := store.InsertPendingReview("p1", types.PendingReview{
			Kind:    "memory",
			Payload: map[string]any{"content": "candidate"},
		}); err != nil {
			t.Fatal(err)
		}
	}

	page, err := c.PendingReviews(ctx, "p1", client.ListParams{})
	if err != nil {
		t.Fatalf("PendingReviews: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Total)
	}

	if err := c.ApproveReview(ctx, "p1", page.Items[0].ID); err != nil {
		t.Fatalf("ApproveReview: %v", err)
	}
	if err := c.RejectReview(ctx, "p1", page.Items[1].ID); err != nil {
		t.Fatalf("RejectReview: %v", err)
	}

	stats, err := c.LearningStats(ctx, "p1")
	if err != nil {
		t.Fatalf("LearningStats: %v", err)
	}
	if stats.TotalLearned != 1 || stats.Rejected != 1 || stats.PendingReview != 0 {
		t.Fatalf("stats = %+v, want 1 learned / 1 rejected / 0 pending", stats)
	}
	if stats.LastLearnedAt == nil {
		t.Fatal("lastLearnedAt missing after approval")
	}
}

func TestSchedulePresetApply(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()

	if err := c.ApplySchedulePreset(ctx, "p1", "daily-review"); err != nil {
		t.Fatalf("ApplySchedulePreset: %v", err)
	}
	page, err := c.ListSchedules(ctx, "p1", client.ListParams{})
	if err != nil {
		t.Fatalf("ListSchedules: %v", err)
	}
	if page.Total != len(schedulePresets["daily-review"]) {
		t.Fatalf("total = %d, want %d", page.Total, len(schedulePresets["daily-review"]))
	}

	err = c.ApplySchedulePreset(ctx, "p1", "no-such-preset")
	if !errors.Is(err, client.ErrNotFound) {
		t.Fatalf("unknown preset: got %v, want ErrNotFound", err)
	}
}

func TestContactScopeEnvelope(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()

	sc, err := c.ContactScope(ctx, "p1")
	if err != nil {
		t.Fatalf("ContactScope default: %v", err)
	}
	if sc.Mode != "all" {
		t.Fatalf("default mode = %q, want all", sc.Mode)
	}

	if err := c.UpdateContactScope(ctx, "p1", types.ContactScope{
		Mode: "allowlist", Contacts: []string{"scribe"},
	}); err != nil {
		t.Fatalf("UpdateContactScope: %v", err)
	}
	sc, err = c.ContactScope(ctx, "p1")
	if err != nil {
		t.Fatalf("ContactScope: %v", err)
	}
	if sc.Mode != "allowlist" || len(sc.Contacts) != 1 {
		t.Fatalf("update lost: %+v", sc)
	}
}

func TestSkillAliasDecodeAcrossWire(t *testing.T) {
	c, store := newTestServer(t)
	ctx := context.Background()

	if _, err := store.InsertSkill("p1", types.Skill{
		Name: "summarization", Level: 3, XP: 150, NextLevelXP: 300,
	}); err != nil {
		t.Fatal(err)
	}

	page, err := c.ListSkills(ctx, "p1", client.ListParams{})
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("len = %d, want 1", len(page.Items))
	}
	sk := page.Items[0]
	if sk.Level != 3 || sk.XP != 150 {
		t.Fatalf("decoded skill wrong: %+v", sk)
	}
	if got := sk.Progress(); got != 50 {
		t.Fatalf("progress = %d, want 50", got)
	}
}

func TestMutationPushesAuditEvent(t *testing.T) {
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.CreateProfile("p1", "Primary", "orchestrator", ""); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(NewServer(store, testToken, nil).Router())
	t.Cleanup(srv.Close)

	events := make(chan stream.AuditEvent, 1)
	sub := stream.New(srv.URL, testToken, nil)
	sub.SubscribeAudit(func(ev stream.AuditEvent) {
		select {
		case events <- ev:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sub.Run(ctx)

	// Give the subscriber a moment to connect before mutating.
	time.Sleep(100 * time.Millisecond)

	c := client.New(srv.URL, client.StaticToken(testToken))
	if err := c.CreateGoal(ctx, "p1", client.GoalInput{Title: "observable"}); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	select {
	case ev := <-events:
		if ev.AgenticID != "p1" {
			t.Fatalf("event profile = %q, want p1", ev.AgenticID)
		}
		if ev.Entry.Category != types.AuditMutation {
			t.Fatalf("event category = %q, want mutation", ev.Entry.Category)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no audit event received")
	}
}
