package devserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/hyperengineering/steward/internal/types"
)

// listFilter is the WHERE state shared by every collection query.
type listFilter struct {
	conds []string
	args  []any
}

func newProfileFilter(profileID string) *listFilter {
	return &listFilter{conds: []string{"profile_id = ?"}, args: []any{profileID}}
}

func (f *listFilter) in(col string, values []string) {
	if len(values) == 0 {
		return
	}
	clause, args := inClause(col, values)
	f.conds = append(f.conds, clause)
	f.args = append(f.args, args...)
}

func (f *listFilter) like(col, search string) {
	if search == "" {
		return
	}
	f.conds = append(f.conds, col+" LIKE ?")
	f.args = append(f.args, "%"+search+"%")
}

func (f *listFilter) where() string {
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// total counts rows matching the filter.
func (s *Store) total(table string, f *listFilter) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM "+table+f.where(), f.args...).Scan(&n)
	return n, err
}

func pageArgs(f *listFilter, limit, offset int) []any {
	if limit <= 0 {
		limit = 50
	}
	return append(append([]any{}, f.args...), limit, offset)
}

// --- Goals ---

// CreateGoal inserts a goal and returns its server-assigned ID.
func (s *Store) CreateGoal(profileID string, in types.Goal) (string, error) {
	id := newID()
	now := fmtTime(time.Now())
	status := in.Status
	if status == "" {
		status = types.GoalActive
	}
	_, err := s.db.Exec(`
		INSERT INTO goals (id, profile_id, title, description, status, progress, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, profileID, in.Title, in.Description, status, in.Progress, in.Priority, now, now)
	return id, err
}

// GoalUpdate carries the mutable goal fields; nil means unchanged.
type GoalUpdate struct {
	Title       *string
	Description *string
	Status      *types.GoalStatus
	Progress    *int
	Priority    *int
}

// UpdateGoal applies the non-nil fields of upd.
func (s *Store) UpdateGoal(profileID, goalID string, upd GoalUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []any{fmtTime(time.Now())}
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.Progress != nil {
		sets = append(sets, "progress = ?")
		args = append(args, *upd.Progress)
	}
	if upd.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *upd.Priority)
	}
	args = append(args, profileID, goalID)

	res, err := s.db.Exec(
		"UPDATE goals SET "+strings.Join(sets, ", ")+" WHERE profile_id = ? AND id = ?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGoal removes a goal.
func (s *Store) DeleteGoal(profileID, goalID string) error {
	return s.deleteRow("goals", profileID, goalID)
}

// ListGoals returns one page of goals plus the filtered total.
func (s *Store) ListGoals(profileID string, statuses []string, search string, limit, offset int) ([]types.Goal, int, error) {
	f := newProfileFilter(profileID)
	f.in("status", statuses)
	f.like("title", search)

	total, err := s.total("goals", f)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, title, description, status, progress, priority, created_at, updated_at
		FROM goals`+f.where()+`
		ORDER BY created_at DESC LIMIT ? OFFSET ?
	`, pageArgs(f, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var goals []types.Goal
	for rows.Next() {
		var g types.Goal
		var created, updated string
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Status, &g.Progress, &g.Priority, &created, &updated); err != nil {
			return nil, 0, err
		}
		g.CreatedAt = parseTime(created)
		g.UpdatedAt = parseTime(updated)
		goals = append(goals, g)
	}
	return goals, total, rows.Err()
}

// deleteRow removes one profile-scoped row by ID.
func (s *Store) deleteRow(table, profileID, id string) error {
	res, err := s.db.Exec(
		"DELETE FROM "+table+" WHERE profile_id = ? AND id = ?", profileID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Audit log ---

// InsertAudit records an audit entry and returns it with ID and timestamp
// assigned.
func (s *Store) InsertAudit(profileID string, category types.AuditCategory, summary string, metadata types.AuditMetadata) (*types.AuditEntry, error) {
	entry := &types.AuditEntry{
		ID:        newID(),
		AgenticID: profileID,
		Category:  category,
		Summary:   summary,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(`
		INSERT INTO audit_entries (id, profile_id, category, summary, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, profileID, entry.Category, entry.Summary, string(meta), fmtTime(entry.CreatedAt))
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListAudit returns one page of audit entries, newest first.
func (s *Store) ListAudit(profileID string, categories []string, search string, limit, offset int) ([]types.AuditEntry, int, error) {
	f := newProfileFilter(profileID)
	f.in("category", categories)
	f.like("summary", search)

	total, err := s.total("audit_entries", f)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, profile_id, category, summary, metadata, created_at
		FROM audit_entries`+f.where()+`
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?
	`, pageArgs(f, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []types.AuditEntry
	for rows.Next() {
		var e types.AuditEntry
		var meta, created string
		if err := rows.Scan(&e.ID, &e.AgenticID, &e.Category, &e.Summary, &meta, &created); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
			return nil, 0, err
		}
		e.CreatedAt = parseTime(created)
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// --- Memories ---

// CreateMemory stores a memory entry.
func (s *Store) CreateMemory(profileID string, in types.Memory) (string, error) {
	id := newID()
	_, err := s.db.Exec(`
		INSERT INTO memories (id, profile_id, content, category, importance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, profileID, in.Content, in.Category, in.Importance, fmtTime(time.Now()))
	return id, err
}

// DeleteMemory removes a memory entry.
func (s *Store) DeleteMemory(profileID, id string) error {
	return s.deleteRow("memories", profileID, id)
}

// ListMemories returns one page of memories, newest first.
func (s *Store) ListMemories(profileID string, categories []string, search string, limit, offset int) ([]types.Memory, int, error) {
	f := newProfileFilter(profileID)
	f.in("category", categories)
	f.like("content", search)

	total, err := s.total("memories", f)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, content, category, importance, created_at
		FROM memories`+f.where()+`
		ORDER BY created_at DESC LIMIT ? OFFSET ?
	`, pageArgs(f, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var memories []types.Memory
	for rows.Next() {
		var m types.Memory
		var created string
		if err := rows.Scan(&m.ID, &m.Content, &m.Category, &m.Importance, &created); err != nil {
			return nil, 0, err
		}
		m.CreatedAt = parseTime(created)
		memories = append(memories, m)
	}
	return memories, total, rows.Err()
}

// SearchMemories is a substring search over memory content. The production
// backend does semantic search here; substring match is contract-compatible
// enough for development.
func (s *Store) SearchMemories(profileID, query string, limit int) ([]types.Memory, error) {
	memories, _, err := s.ListMemories(profileID, nil, query, limit, 0)
	return memories, err
}

// --- Skills ---

// InsertSkill seeds a skill row.
func (s *Store) InsertSkill(profileID string, sk types.Skill) (string, error) {
	id := newID()
	_, err := s.db.Exec(`
		INSERT INTO skills (id, profile_id, name, level, experience, next_level_xp, usage_count, last_used_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, profileID, sk.Name, sk.Level, sk.XP, sk.NextLevelXP, sk.UsageCount, nullableTime(sk.LastUsedAt))
	return id, err
}

// ListSkills returns one page of skills.
func (s *Store) ListSkills(profileID, search string, limit, offset int) ([]types.Skill, int, error) {
	f := newProfileFilter(profileID)
	f.like("name", search)

	total, err := s.total("skills", f)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, name, level, experience, next_level_xp, usage_count, last_used_at
		FROM skills`+f.where()+`
		ORDER BY experience DESC LIMIT ? OFFSET ?
	`, pageArgs(f, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var skills []types.Skill
	for rows.Next() {
		var sk types.Skill
		var lastUsed sql.NullString
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Level, &sk.XP, &sk.NextLevelXP, &sk.UsageCount, &lastUsed); err != nil {
			return nil, 0, err
		}
		sk.LastUsedAt = timePtr(lastUsed)
		skills = append(skills, sk)
	}
	return skills, total, rows.Err()
}

// --- Schedules ---

// CreateSchedule inserts a schedule.
func (s *Store) CreateSchedule(profileID string, in types.Schedule) (string, error) {
	id := newID()
	_, err := s.db.Exec(`
		INSERT INTO schedules (id, profile_id, name, cron, action, enabled, last_run_at, next_run_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, profileID, in.Name, in.Cron, in.Action, in.Enabled, nullableTime(in.LastRunAt), nullableTime(in.NextRunAt))
	return id, err
}

// SetScheduleEnabled toggles a schedule.
func (s *Store) SetScheduleEnabled(profileID, id string, enabled bool) error {
	res, err := s.db.Exec(`
		UPDATE schedules SET enabled = ? WHERE profile_id = ? AND id = ?
	`, enabled, profileID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSchedule removes a schedule.
func (s *Store) DeleteSchedule(profileID, id string) error {
	return s.deleteRow("schedules", profileID, id)
}

// ListSchedules returns one page of schedules.
func (s *Store) ListSchedules(profileID string, limit, offset int) ([]types.Schedule, int, error) {
	f := newProfileFilter(profileID)

	total, err := s.total("schedules", f)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, name, cron, action, enabled, last_run_at, next_run_at
		FROM schedules`+f.where()+`
		ORDER BY name LIMIT ? OFFSET ?
	`, pageArgs(f, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var schedules []types.Schedule
	for rows.Next() {
		var sc types.Schedule
		var lastRun, nextRun sql.NullString
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Cron, &sc.Action, &sc.Enabled, &lastRun, &nextRun); err != nil {
			return nil, 0, err
		}
		sc.LastRunAt = timePtr(lastRun)
		sc.NextRunAt = timePtr(nextRun)
		schedules = append(schedules, sc)
	}
	return schedules, total, rows.Err()
}

// DueSchedule is one enabled schedule whose next run time has passed.
type DueSchedule struct {
	ProfileID string
	Schedule  types.Schedule
}

// DueSchedules returns every enabled schedule due at or before now. A
// schedule that has never run counts as due.
func (s *Store) DueSchedules(now time.Time) ([]DueSchedule, error) {
	rows, err := s.db.Query(`
		SELECT profile_id, id, name, cron, action, last_run_at, next_run_at
		FROM schedules
		WHERE enabled = 1 AND (next_run_at IS NULL OR next_run_at <= ?)
	`, fmtTime(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []DueSchedule
	for rows.Next() {
		var d DueSchedule
		var lastRun, nextRun sql.NullString
		if err := rows.Scan(&d.ProfileID, &d.Schedule.ID, &d.Schedule.Name,
			&d.Schedule.Cron, &d.Schedule.Action, &lastRun, &nextRun); err != nil {
			return nil, err
		}
		d.Schedule.Enabled = true
		d.Schedule.LastRunAt = timePtr(lastRun)
		d.Schedule.NextRunAt = timePtr(nextRun)
		due = append(due, d)
	}
	return due, rows.Err()
}

// MarkScheduleRun records a completed firing and arms the next one.
func (s *Store) MarkScheduleRun(profileID, id string, last, next time.Time) error {
	res, err := s.db.Exec(`
		UPDATE schedules SET last_run_at = ?, next_run_at = ? WHERE profile_id = ? AND id = ?
	`, fmtTime(last), fmtTime(next), profileID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Self-prompts ---

// InsertSelfPrompt queues a self-prompt.
func (s *Store) InsertSelfPrompt(profileID string, in types.SelfPrompt) (string, error) {
	id := newID()
	status := in.Status
	if status == "" {
		status = types.PromptPending
	}
	_, err := s.db.Exec(`
		INSERT INTO self_prompts (id, profile_id, prompt, status, scheduled_for, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, profileID, in.Prompt, status, nullableTime(in.ScheduledFor), fmtTime(time.Now()))
	return id, err
}

// SetSelfPromptStatus transitions a queued self-prompt.
func (s *Store) SetSelfPromptStatus(profileID, id string, status types.SelfPromptStatus) error {
	res, err := s.db.Exec(`
		UPDATE self_prompts SET status = ? WHERE profile_id = ? AND id = ?
	`, status, profileID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSelfPrompt removes a self-prompt.
func (s *Store) DeleteSelfPrompt(profileID, id string) error {
	return s.deleteRow("self_prompts", profileID, id)
}

// ListSelfPrompts returns one page of the self-prompt queue.
func (s *Store) ListSelfPrompts(profileID string, statuses []string, limit, offset int) ([]types.SelfPrompt, int, error) {
	f := newProfileFilter(profileID)
	f.in("status", statuses)

	total, err := s.total("self_prompts", f)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, prompt, status, scheduled_for, created_at
		FROM self_prompts`+f.where()+`
		ORDER BY created_at DESC LIMIT ? OFFSET ?
	`, pageArgs(f, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var prompts []types.SelfPrompt
	for rows.Next() {
		var p types.SelfPrompt
		var scheduled sql.NullString
		var created string
		if err := rows.Scan(&p.ID, &p.Prompt, &p.Status, &scheduled, &created); err != nil {
			return nil, 0, err
		}
		p.ScheduledFor = timePtr(scheduled)
		p.CreatedAt = parseTime(created)
		prompts = append(prompts, p)
	}
	return prompts, total, rows.Err()
}

// --- Tasks ---

// CreateTask inserts a task.
func (s *Store) CreateTask(profileID string, in types.Task) (string, error) {
	id := newID()
	status := in.Status
	if status == "" {
		status = types.TaskOpen
	}
	_, err := s.db.Exec(`
		INSERT INTO tasks (id, profile_id, title, status, assigned_to, due_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, profileID, in.Title, status, in.AssignedTo, nullableTime(in.DueAt), fmtTime(time.Now()))
	return id, err
}

// SetTaskStatus transitions a task.
func (s *Store) SetTaskStatus(profileID, id string, status types.TaskStatus) error {
	res, err := s.db.Exec(`
		UPDATE tasks SET status = ? WHERE profile_id = ? AND id = ?
	`, status, profileID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(profileID, id string) error {
	return s.deleteRow("tasks", profileID, id)
}

// ListTasks returns one page of tasks.
func (s *Store) ListTasks(profileID string, statuses, assignees []string, search string, limit, offset int) ([]types.Task, int, error) {
	f := newProfileFilter(profileID)
	f.in("status", statuses)
	f.in("assigned_to", assignees)
	f.like("title", search)

	total, err := s.total("tasks", f)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, title, status, assigned_to, due_at, created_at
		FROM tasks`+f.where()+`
		ORDER BY created_at DESC LIMIT ? OFFSET ?
	`, pageArgs(f, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		var tk types.Task
		var due sql.NullString
		var created string
		if err := rows.Scan(&tk.ID, &tk.Title, &tk.Status, &tk.AssignedTo, &due, &created); err != nil {
			return nil, 0, err
		}
		tk.DueAt = timePtr(due)
		tk.CreatedAt = parseTime(created)
		tasks = append(tasks, tk)
	}
	return tasks, total, rows.Err()
}

// --- Messages and threads ---

// InsertMessage stores a message, assigning a new thread when none given.
func (s *Store) InsertMessage(profileID string, in types.Message) (string, error) {
	id := newID()
	threadID := in.ThreadID
	if threadID == "" {
		threadID = newID()
	}
	_, err := s.db.Exec(`
		INSERT INTO messages (id, profile_id, thread_id, sender, recipient, direction, body, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, profileID, threadID, in.From, in.To, in.Direction, in.Body, fmtTime(time.Now()))
	return id, err
}

// ListMessages returns one page of messages, newest first.
func (s *Store) ListMessages(profileID string, threadIDs, directions []string, limit, offset int) ([]types.Message, int, error) {
	f := newProfileFilter(profileID)
	f.in("thread_id", threadIDs)
	f.in("direction", directions)

	total, err := s.total("messages", f)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, thread_id, sender, recipient, direction, body, sent_at
		FROM messages`+f.where()+`
		ORDER BY sent_at DESC, id DESC LIMIT ? OFFSET ?
	`, pageArgs(f, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var messages []types.Message
	for rows.Next() {
		var m types.Message
		var sent string
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.From, &m.To, &m.Direction, &m.Body, &sent); err != nil {
			return nil, 0, err
		}
		m.SentAt = parseTime(sent)
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}

// ListThreads aggregates messages into threads, most recent first.
func (s *Store) ListThreads(profileID string, limit, offset int) ([]types.Thread, int, error) {
	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(DISTINCT thread_id) FROM messages WHERE profile_id = ?
	`, profileID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT thread_id, MAX(sent_at), COUNT(*),
		       (SELECT body FROM messages m2 WHERE m2.thread_id = m.thread_id ORDER BY sent_at LIMIT 1)
		FROM messages m
		WHERE profile_id = ?
		GROUP BY thread_id
		ORDER BY MAX(sent_at) DESC LIMIT ? OFFSET ?
	`, profileID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var threads []types.Thread
	for rows.Next() {
		var t types.Thread
		var last string
		if err := rows.Scan(&t.ID, &last, &t.MessageCount, &t.Subject); err != nil {
			return nil, 0, err
		}
		t.LastMessageAt = parseTime(last)
		threads = append(threads, t)
	}
	return threads, total, rows.Err()
}

// --- Executions ---

// InsertExecution records an execution run.
func (s *Store) InsertExecution(profileID string, in types.Execution) (string, error) {
	id := newID()
	started := in.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO executions (id, profile_id, kind, status, summary, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, profileID, in.Kind, in.Status, in.Summary, fmtTime(started), nullableTime(in.FinishedAt))
	return id, err
}

// ListExecutions returns one page of execution history, newest first.
func (s *Store) ListExecutions(profileID string, statuses, kinds []string, limit, offset int) ([]types.Execution, int, error) {
	f := newProfileFilter(profileID)
	f.in("status", statuses)
	f.in("kind", kinds)

	total, err := s.total("executions", f)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, kind, status, summary, started_at, finished_at
		FROM executions`+f.where()+`
		ORDER BY started_at DESC, id DESC LIMIT ? OFFSET ?
	`, pageArgs(f, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var executions []types.Execution
	for rows.Next() {
		var e types.Execution
		var started string
		var finished sql.NullString
		if err := rows.Scan(&e.ID, &e.Kind, &e.Status, &e.Summary, &started, &finished); err != nil {
			return nil, 0, err
		}
		e.StartedAt = parseTime(started)
		e.FinishedAt = timePtr(finished)
		executions = append(executions, e)
	}
	return executions, total, rows.Err()
}

// --- Knowledge ---

// InsertKnowledge adds a knowledge-base item.
func (s *Store) InsertKnowledge(profileID string, in types.KnowledgeItem) (string, error) {
	id := newID()
	_, err := s.db.Exec(`
		INSERT INTO knowledge (id, profile_id, topic, content, source, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, profileID, in.Topic, in.Content, in.Source, fmtTime(time.Now()))
	return id, err
}

// DeleteKnowledge removes a knowledge-base item.
func (s *Store) DeleteKnowledge(profileID, id string) error {
	return s.deleteRow("knowledge", profileID, id)
}

// ListKnowledge returns one page of the knowledge base.
func (s *Store) ListKnowledge(profileID string, topics []string, search string, limit, offset int) ([]types.KnowledgeItem, int, error) {
	f := newProfileFilter(profileID)
	f.in("topic", topics)
	f.like("content", search)

	total, err := s.total("knowledge", f)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, topic, content, source, added_at
		FROM knowledge`+f.where()+`
		ORDER BY added_at DESC LIMIT ? OFFSET ?
	`, pageArgs(f, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []types.KnowledgeItem
	for rows.Next() {
		var k types.KnowledgeItem
		var added string
		if err := rows.Scan(&k.ID, &k.Topic, &k.Content, &k.Source, &added); err != nil {
			return nil, 0, err
		}
		k.AddedAt = parseTime(added)
		items = append(items, k)
	}
	return items, total, rows.Err()
}

// --- Self-learning reviews ---

// InsertPendingReview queues a self-learning item for review.
func (s *Store) InsertPendingReview(profileID string, in types.PendingReview) (string, error) {
	id := newID()
	payload, err := json.Marshal(in.Payload)
	if err != nil {
		return "", err
	}
	_, err = s.db.Exec(`
		INSERT INTO pending_reviews (id, profile_id, kind, payload, submitted_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, profileID, in.Kind, string(payload), fmtTime(time.Now()))
	return id, err
}

// ResolvePendingReview removes a review from the queue. Returns ErrNotFound
// when the review does not exist.
func (s *Store) ResolvePendingReview(profileID, id string) error {
	return s.deleteRow("pending_reviews", profileID, id)
}

// ListPendingReviews returns one page of the review queue.
func (s *Store) ListPendingReviews(profileID string, limit, offset int) ([]types.PendingReview, int, error) {
	f := newProfileFilter(profileID)

	total, err := s.total("pending_reviews", f)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, kind, payload, submitted_at
		FROM pending_reviews`+f.where()+`
		ORDER BY submitted_at LIMIT ? OFFSET ?
	`, pageArgs(f, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []types.PendingReview
	for rows.Next() {
		var r types.PendingReview
		var payload, submitted string
		if err := rows.Scan(&r.ID, &r.Kind, &payload, &submitted); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal([]byte(payload), &r.Payload); err != nil {
			return nil, 0, err
		}
		r.SubmittedAt = parseTime(submitted)
		reviews = append(reviews, r)
	}
	return reviews, total, rows.Err()
}

// --- Monitoring ---

// MonitorStatus computes the live health snapshot of a profile.
func (s *Store) MonitorStatus(profileID string) (*types.MonitorStatus, error) {
	state, err := s.ProfileState(profileID)
	if err != nil {
		return nil, err
	}

	st := &types.MonitorStatus{AgenticID: profileID, State: state}

	if err := s.db.QueryRow(`
		SELECT COUNT(*) FROM goals WHERE profile_id = ? AND status = 'active'
	`, profileID).Scan(&st.ActiveGoals); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow(`
		SELECT COUNT(*) FROM self_prompts WHERE profile_id = ? AND status = 'pending'
	`, profileID).Scan(&st.QueuedPrompts); err != nil {
		return nil, err
	}

	var last sql.NullString
	err = s.db.QueryRow(`
		SELECT MAX(created_at) FROM audit_entries WHERE profile_id = ?
	`, profileID).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	st.LastActiveAt = timePtr(last)

	return st, nil
}
