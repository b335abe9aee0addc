package devserver

import (
	"errors"
	"testing"

	"github.com/hyperengineering/steward/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.CreateProfile("p1", "Primary", "orchestrator", ""); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	return s
}

func TestGoalLifecycle(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateGoal("p1", types.Goal{Title: "first", Priority: 1})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if _, err := s.CreateGoal("p1", types.Goal{Title: "second", Status: types.GoalPaused}); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	goals, total, err := s.ListGoals("p1", nil, "", 50, 0)
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if total != 2 || len(goals) != 2 {
		t.Fatalf("got total=%d len=%d, want 2/2", total, len(goals))
	}
	if goals[0].Status != types.GoalPaused && goals[0].Status != types.GoalActive {
		t.Fatalf("unexpected status %q", goals[0].Status)
	}

	// Status filter narrows both items and total.
	goals, total, err = s.ListGoals("p1", []string{"paused"}, "", 50, 0)
	if err != nil {
		t.Fatalf("ListGoals filtered: %v", err)
	}
	if total != 1 || len(goals) != 1 || goals[0].Title != "second" {
		t.Fatalf("filtered list wrong: total=%d goals=%+v", total, goals)
	}

	progress := 75
	if err := s.UpdateGoal("p1", id, GoalUpdate{Progress: &progress}); err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	goals, _, err = s.ListGoals("p1", []string{"active"}, "", 50, 0)
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if goals[0].Progress != 75 {
		t.Fatalf("progress = %d, want 75", goals[0].Progress)
	}

	if err := s.DeleteGoal("p1", id); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	if err := s.DeleteGoal("p1", id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestUpdateGoalMissingReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	title := "x"
	err := s.UpdateGoal("p1", "nope", GoalUpdate{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListGoalsPaginationTotals(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 7; i++ {
		if _, err := s.CreateGoal("p1", types.Goal{Title: "goal"}); err != nil {
			t.Fatalf("CreateGoal: %v", err)
		}
	}

	goals, total, err := s.ListGoals("p1", nil, "", 3, 6)
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if total != 7 {
		t.Fatalf("total = %d, want 7", total)
	}
	if len(goals) != 1 {
		t.Fatalf("last page len = %d, want 1", len(goals))
	}
}

func TestAuditMetadataRoundTrip(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.InsertAudit("p1", types.AuditAIRequest, "model call", types.AuditMetadata{
		Messages: []types.AuditMessage{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("InsertAudit: %v", err)
	}
	if entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Fatalf("entry not fully assigned: %+v", entry)
	}

	entries, total, err := s.ListAudit("p1", []string{"ai_request"}, "", 50, 0)
	if err != nil {
		t.Fatalf("ListAudit: %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Fatalf("total=%d len=%d, want 1/1", total, len(entries))
	}
	if len(entries[0].Metadata.Messages) != 1 || entries[0].Metadata.Messages[0].Content != "hello" {
		t.Fatalf("metadata lost in round trip: %+v", entries[0].Metadata)
	}
}

func TestThreadAggregation(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.InsertMessage("p1", types.Message{
		From: "p1", To: "scribe", Direction: types.DirectionOutbound, Body: "status?",
	}); err != nil {
		t.Fatalf("InsertMessage: %v", err)
	}

	messages, _, err := s.ListMessages("p1", nil, nil, 50, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 1 || messages[0].ThreadID == "" {
		t.Fatalf("thread not assigned: %+v", messages)
	}
	threadID := messages[0].ThreadID

	if _, err := s.InsertMessage("p1", types.Message{
		ThreadID: threadID, From: "scribe", To: "p1",
		Direction: types.DirectionInbound, Body: "on track",
	}); err != nil {
		t.Fatalf("InsertMessage reply: %v", err)
	}

	threads, total, err := s.ListThreads("p1", 50, 0)
	if err != nil {
		t.Fatalf("ListThreads: %v", err)
	}
	if total != 1 || len(threads) != 1 {
		t.Fatalf("total=%d len=%d, want 1/1", total, len(threads))
	}
	if threads[0].MessageCount != 2 {
		t.Fatalf("messageCount = %d, want 2", threads[0].MessageCount)
	}
	if threads[0].Subject != "status?" {
		t.Fatalf("subject = %q, want first message body", threads[0].Subject)
	}
}

func TestMonitorStatusCounts(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateGoal("p1", types.Goal{Title: "a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateGoal("p1", types.Goal{Title: "b", Status: types.GoalCompleted}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.InsertSelfPrompt("p1", types.SelfPrompt{Prompt: "review"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.InsertAudit("p1", types.AuditSystem, "boot", types.AuditMetadata{}); err != nil {
		t.Fatal(err)
	}

	st, err := s.MonitorStatus("p1")
	if err != nil {
		t.Fatalf("MonitorStatus: %v", err)
	}
	if st.State != "running" {
		t.Fatalf("state = %q, want running", st.State)
	}
	if st.ActiveGoals != 1 {
		t.Fatalf("activeGoals = %d, want 1", st.ActiveGoals)
	}
	if st.QueuedPrompts != 1 {
		t.Fatalf("queuedPrompts = %d, want 1", st.QueuedPrompts)
	}
	if st.LastActiveAt == nil {
		t.Fatal("lastActiveAt missing")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	var missing types.Personality
	if err := s.GetSetting("p1", "personality", &missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing setting: got %v, want ErrNotFound", err)
	}

	want := types.Personality{Tone: "direct", Traits: []string{"curious"}}
	if err := s.PutSetting("p1", "personality", want); err != nil {
		t.Fatalf("PutSetting: %v", err)
	}

	var got types.Personality
	if err := s.GetSetting("p1", "personality", &got); err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got.Tone != "direct" || len(got.Traits) != 1 {
		t.Fatalf("round trip lost data: %+v", got)
	}

	// Overwrite goes through the upsert path.
	want.Tone = "gentle"
	if err := s.PutSetting("p1", "personality", want); err != nil {
		t.Fatalf("PutSetting overwrite: %v", err)
	}
	if err := s.GetSetting("p1", "personality", &got); err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got.Tone != "gentle" {
		t.Fatalf("tone = %q, want gentle", got.Tone)
	}
}

func TestHierarchyTree(t *testing.T) {
	s := newTestStore(t)
	if err := s.CreateProfile("c1", "Child One", "worker", "p1"); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateProfile("c2", "Child Two", "worker", "p1"); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateProfile("g1", "Grandchild", "worker", "c1"); err != nil {
		t.Fatal(err)
	}

	node, err := s.Hierarchy("p1")
	if err != nil {
		t.Fatalf("Hierarchy: %v", err)
	}
	if len(node.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(node.Children))
	}
	var c1 *types.HierarchyNode
	for i := range node.Children {
		if node.Children[i].AgenticID == "c1" {
			c1 = &node.Children[i]
		}
	}
	if c1 == nil || len(c1.Children) != 1 || c1.Children[0].AgenticID != "g1" {
		t.Fatalf("grandchild missing: %+v", node)
	}
}

func TestSeedPopulatesEveryPanel(t *testing.T) {
	s, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	checks := []struct {
		name string
		n    func() (int, error)
	}{
		{"goals", func() (int, error) { _, n, err := s.ListGoals(DefaultProfile, nil, "", 1, 0); return n, err }},
		{"memories", func() (int, error) { _, n, err := s.ListMemories(DefaultProfile, nil, "", 1, 0); return n, err }},
		{"skills", func() (int, error) { _, n, err := s.ListSkills(DefaultProfile, "", 1, 0); return n, err }},
		{"schedules", func() (int, error) { _, n, err := s.ListSchedules(DefaultProfile, 1, 0); return n, err }},
		{"tasks", func() (int, error) { _, n, err := s.ListTasks(DefaultProfile, nil, nil, "", 1, 0); return n, err }},
		{"selfPrompts", func() (int, error) { _, n, err := s.ListSelfPrompts(DefaultProfile, nil, 1, 0); return n, err }},
		{"executions", func() (int, error) { _, n, err := s.ListExecutions(DefaultProfile, nil, nil, 1, 0); return n, err }},
		{"knowledge", func() (int, error) { _, n, err := s.ListKnowledge(DefaultProfile, nil, "", 1, 0); return n, err }},
		{"reviews", func() (int, error) { _, n, err := s.ListPendingReviews(DefaultProfile, 1, 0); return n, err }},
		{"audit", func() (int, error) { _, n, err := s.ListAudit(DefaultProfile, nil, "", 1, 0); return n, err }},
	}
	for _, c := range checks {
		n, err := c.n()
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if n == 0 {
			t.Errorf("%s: seed left collection empty", c.name)
		}
	}
}
