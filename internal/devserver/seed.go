package devserver

import (
	"fmt"
	"time"

	"github.com/hyperengineering/steward/internal/types"
)

// DefaultProfile is the profile the seed data is written under and the
// console's default target.
const DefaultProfile = "atlas"

// Seed populates the store with a small agent team and enough resource
// rows to exercise every panel. Calling it twice duplicates rows; it is
// meant for fresh databases only.
func (s *Store) Seed() error {
	if err := s.CreateProfile(DefaultProfile, "Atlas", "orchestrator", ""); err != nil {
		return fmt.Errorf("seed profiles: %w", err)
	}
	for _, p := range []struct{ id, name, role string }{
		{"scribe", "Scribe", "research"},
		{"courier", "Courier", "communications"},
	} {
		if err := s.CreateProfile(p.id, p.name, p.role, DefaultProfile); err != nil {
			return fmt.Errorf("seed profiles: %w", err)
		}
	}

	for _, g := range []types.Goal{
		{Title: "Ship quarterly report", Description: "Compile and deliver the Q3 summary", Status: types.GoalActive, Progress: 40, Priority: 1},
		{Title: "Index research archive", Status: types.GoalActive, Progress: 10, Priority: 2},
		{Title: "Migrate contact book", Status: types.GoalCompleted, Progress: 100, Priority: 3},
	} {
		if _, err := s.CreateGoal(DefaultProfile, g); err != nil {
			return fmt.Errorf("seed goals: %w", err)
		}
	}

	for _, m := range []types.Memory{
		{Content: "Owner prefers summaries under 200 words", Category: "preference", Importance: 0.9},
		{Content: "Weekly sync happens Mondays at 09:00", Category: "fact", Importance: 0.6},
		{Content: "Scribe handles all archive lookups", Category: "fact", Importance: 0.5},
	} {
		if _, err := s.CreateMemory(DefaultProfile, m); err != nil {
			return fmt.Errorf("seed memories: %w", err)
		}
	}

	lastUsed := time.Now().Add(-2 * time.Hour)
	for _, sk := range []types.Skill{
		{Name: "summarization", Level: 4, XP: 320, NextLevelXP: 400, UsageCount: 57, LastUsedAt: &lastUsed},
		{Name: "scheduling", Level: 2, XP: 80, NextLevelXP: 200, UsageCount: 12},
		{Name: "web-research", Level: 3, XP: 150, NextLevelXP: 300, UsageCount: 31},
	} {
		if _, err := s.InsertSkill(DefaultProfile, sk); err != nil {
			return fmt.Errorf("seed skills: %w", err)
		}
	}

	for _, sc := range schedulePresets["daily-review"] {
		if _, err := s.CreateSchedule(DefaultProfile, sc); err != nil {
			return fmt.Errorf("seed schedules: %w", err)
		}
	}

	for _, t := range []types.Task{
		{Title: "Draft report outline", Status: types.TaskInProgress, AssignedTo: "scribe"},
		{Title: "Collect usage metrics", Status: types.TaskOpen, AssignedTo: "scribe"},
		{Title: "Notify stakeholders", Status: types.TaskOpen, AssignedTo: "courier"},
	} {
		if _, err := s.CreateTask(DefaultProfile, t); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}

	if _, err := s.InsertSelfPrompt(DefaultProfile, types.SelfPrompt{
		Prompt: "Review stale goals and propose status changes",
	}); err != nil {
		return fmt.Errorf("seed self-prompts: %w", err)
	}

	finished := time.Now().Add(-30 * time.Minute)
	for _, e := range []types.Execution{
		{Kind: "reasoning", Status: types.ExecutionSucceeded, Summary: "Planned report outline", StartedAt: finished.Add(-5 * time.Minute), FinishedAt: &finished},
		{Kind: "tool", Status: types.ExecutionFailed, Summary: "Archive lookup timed out", StartedAt: finished.Add(-20 * time.Minute)},
	} {
		if _, err := s.InsertExecution(DefaultProfile, e); err != nil {
			return fmt.Errorf("seed executions: %w", err)
		}
	}

	if _, err := s.InsertKnowledge(DefaultProfile, types.KnowledgeItem{
		Topic:   "reporting",
		Content: "Quarterly reports follow the finance team's template v4",
		Source:  "handbook",
	}); err != nil {
		return fmt.Errorf("seed knowledge: %w", err)
	}

	if _, err := s.InsertPendingReview(DefaultProfile, types.PendingReview{
		Kind:    "memory",
		Payload: map[string]any{"content": "Courier should CC the owner on escalations"},
	}); err != nil {
		return fmt.Errorf("seed reviews: %w", err)
	}

	if _, err := s.InsertAudit(DefaultProfile, types.AuditSystem, "profile started", types.AuditMetadata{}); err != nil {
		return fmt.Errorf("seed audit: %w", err)
	}

	return nil
}
