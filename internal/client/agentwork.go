package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperengineering/steward/internal/types"
)

// AuditLog fetches one page of a profile's audit log, newest first.
// Supported filters: "category".
func (c *Client) AuditLog(ctx context.Context, agenticID string, p ListParams) (Page[types.AuditEntry], error) {
	return listResource[types.AuditEntry](ctx, c, profilePath(agenticID, "audit-log"), "entries", p)
}

// ListSkills fetches one page of a profile's skills.
func (c *Client) ListSkills(ctx context.Context, agenticID string, p ListParams) (Page[types.Skill], error) {
	return listResource[types.Skill](ctx, c, profilePath(agenticID, "skills"), "skills", p)
}

// ScheduleInput is the request body for creating a schedule.
type ScheduleInput struct {
	Name    string `json:"name"`
	Cron    string `json:"cron"`
	Action  string `json:"action"`
	Enabled bool   `json:"enabled"`
}

// ListSchedules fetches one page of a profile's schedules.
func (c *Client) ListSchedules(ctx context.Context, agenticID string, p ListParams) (Page[types.Schedule], error) {
	return listResource[types.Schedule](ctx, c, profilePath(agenticID, "schedules"), "schedules", p)
}

// CreateSchedule creates a schedule.
func (c *Client) CreateSchedule(ctx context.Context, agenticID string, in ScheduleInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(in.Cron) == "" {
		return fmt.Errorf("%w: cron expression is required", ErrValidation)
	}
	return c.post(ctx, profilePath(agenticID, "schedules"), in, nil)
}

// SetScheduleEnabled toggles a schedule on or off.
func (c *Client) SetScheduleEnabled(ctx context.Context, agenticID, scheduleID string, enabled bool) error {
	body := map[string]bool{"enabled": enabled}
	return c.put(ctx, profilePath(agenticID, "schedules", scheduleID), body, nil)
}

// DeleteSchedule removes a schedule.
func (c *Client) DeleteSchedule(ctx context.Context, agenticID, scheduleID string) error {
	return c.delete(ctx, profilePath(agenticID, "schedules", scheduleID))
}

// ApplySchedulePreset installs a named preset's schedules onto the profile.
func (c *Client) ApplySchedulePreset(ctx context.Context, agenticID, preset string) error {
	return c.post(ctx, profilePath(agenticID, "schedules", "presets", preset, "apply"), nil, nil)
}

// TaskInput is the request body for creating a task.
type TaskInput struct {
	Title      string `json:"title"`
	AssignedTo string `json:"assignedTo,omitempty"`
	DueAt      string `json:"dueAt,omitempty"`
}

// ListTasks fetches one page of a profile's tasks. Supported filters:
// "status", "assignedTo".
func (c *Client) ListTasks(ctx context.Context, agenticID string, p ListParams) (Page[types.Task], error) {
	return listResource[types.Task](ctx, c, profilePath(agenticID, "tasks"), "tasks", p)
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, agenticID string, in TaskInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	return c.post(ctx, profilePath(agenticID, "tasks"), in, nil)
}

// SetTaskStatus transitions a task.
func (c *Client) SetTaskStatus(ctx context.Context, agenticID, taskID string, status types.TaskStatus) error {
	body := map[string]types.TaskStatus{"status": status}
	return c.put(ctx, profilePath(agenticID, "tasks", taskID), body, nil)
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, agenticID, taskID string) error {
	return c.delete(ctx, profilePath(agenticID, "tasks", taskID))
}

// ListSelfPrompts fetches one page of the self-prompt queue. Supported
// filters: "status".
func (c *Client) ListSelfPrompts(ctx context.Context, agenticID string, p ListParams) (Page[types.SelfPrompt], error) {
	return listResource[types.SelfPrompt](ctx, c, profilePath(agenticID, "self-prompts"), "selfPrompts", p)
}

// ApproveSelfPrompt approves a queued self-prompt for execution.
func (c *Client) ApproveSelfPrompt(ctx context.Context, agenticID, promptID string) error {
	return c.post(ctx, profilePath(agenticID, "self-prompts", promptID, "approve"), nil, nil)
}

// RejectSelfPrompt rejects a queued self-prompt.
func (c *Client) RejectSelfPrompt(ctx context.Context, agenticID, promptID string) error {
	return c.post(ctx, profilePath(agenticID, "self-prompts", promptID, "reject"), nil, nil)
}

// DeleteSelfPrompt removes a self-prompt from the queue.
func (c *Client) DeleteSelfPrompt(ctx context.Context, agenticID, promptID string) error {
	return c.delete(ctx, profilePath(agenticID, "self-prompts", promptID))
}
