package devserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/steward/internal/types"
)

// --- Goals ---

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r)
	goals, total, err := s.store.ListGoals(profileID(r),
		r.URL.Query()["status"], p.search, p.limit, p.offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "goals", goals, total)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title       string           `json:"title"`
		Description string           `json:"description"`
		Priority    int              `json:"priority"`
		Status      types.GoalStatus `json:"status"`
	}
	if !s.decodeBody(w, r, &in) {
		return
	}
	if in.Title == "" {
		s.writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	id := profileID(r)
	if _, err := s.store.CreateGoal(id, types.Goal{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
	}); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "goal created: "+in.Title, types.AuditMetadata{})
	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title       *string           `json:"title"`
		Description *string           `json:"description"`
		Priority    *int              `json:"priority"`
		Progress    *int              `json:"progress"`
		Status      *types.GoalStatus `json:"status"`
	}
	if !s.decodeBody(w, r, &in) {
		return
	}
	id := profileID(r)
	goalID := chi.URLParam(r, "goalID")
	err := s.store.UpdateGoal(id, goalID, GoalUpdate{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Progress:    in.Progress,
		Status:      in.Status,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "goal updated", types.AuditMetadata{})
	s.hub.Broadcast("goal:updated", map[string]string{"agenticId": id, "goalId": goalID})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := profileID(r)
	if err := s.store.DeleteGoal(id, chi.URLParam(r, "goalID")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "goal deleted", types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Audit log ---

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r)
	entries, total, err := s.store.ListAudit(profileID(r),
		r.URL.Query()["category"], p.search, p.limit, p.offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "entries", entries, total)
}

// --- Memories ---

func (s *Server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r)
	memories, total, err := s.store.ListMemories(profileID(r),
		r.URL.Query()["category"], p.search, p.limit, p.offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "memories", memories, total)
}

func (s *Server) handleSearchMemories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit := 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	memories, err := s.store.SearchMemories(profileID(r), query, limit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"memories": memories})
}

func (s *Server) handleCreateMemory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Content    string  `json:"content"`
		Category   string  `json:"category"`
		Importance float64 `json:"importance"`
	}
	if !s.decodeBody(w, r, &in) {
		return
	}
	if in.Content == "" {
		s.writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	id := profileID(r)
	if _, err := s.store.CreateMemory(id, types.Memory{
		Content:    in.Content,
		Category:   in.Category,
		Importance: in.Importance,
	}); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "memory stored", types.AuditMetadata{})
	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	id := profileID(r)
	if err := s.store.DeleteMemory(id, chi.URLParam(r, "memoryID")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "memory deleted", types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Knowledge ---

func (s *Server) handleListKnowledge(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r)
	items, total, err := s.store.ListKnowledge(profileID(r),
		r.URL.Query()["topic"], p.search, p.limit, p.offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "knowledge", items, total)
}

func (s *Server) handleAddKnowledge(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Topic   string `json:"topic"`
		Content string `json:"content"`
		Source  string `json:"source"`
	}
	if !s.decodeBody(w, r, &in) {
		return
	}
	if in.Topic == "" {
		s.writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	id := profileID(r)
	if _, err := s.store.InsertKnowledge(id, types.KnowledgeItem{
		Topic:   in.Topic,
		Content: in.Content,
		Source:  in.Source,
	}); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "knowledge added: "+in.Topic, types.AuditMetadata{})
	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleDeleteKnowledge(w http.ResponseWriter, r *http.Request) {
	id := profileID(r)
	if err := s.store.DeleteKnowledge(id, chi.URLParam(r, "itemID")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "knowledge deleted", types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Skills ---

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r)
	skills, total, err := s.store.ListSkills(profileID(r), p.search, p.limit, p.offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "skills", skills, total)
}

// --- Schedules ---

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r)
	schedules, total, err := s.store.ListSchedules(profileID(r), p.limit, p.offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "schedules", schedules, total)
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name    string `json:"name"`
		Cron    string `json:"cron"`
		Action  string `json:"action"`
		Enabled bool   `json:"enabled"`
	}
	if !s.decodeBody(w, r, &in) {
		return
	}
	if in.Name == "" || in.Cron == "" {
		s.writeError(w, http.StatusBadRequest, "name and cron are required")
		return
	}
	id := profileID(r)
	if _, err := s.store.CreateSchedule(id, types.Schedule{
		Name:    in.Name,
		Cron:    in.Cron,
		Action:  in.Action,
		Enabled: in.Enabled,
	}); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "schedule created: "+in.Name, types.AuditMetadata{})
	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Enabled *bool `json:"enabled"`
	}
	if !s.decodeBody(w, r, &in) {
		return
	}
	if in.Enabled == nil {
		s.writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}
	id := profileID(r)
	if err := s.store.SetScheduleEnabled(id, chi.URLParam(r, "scheduleID"), *in.Enabled); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "schedule toggled", types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := profileID(r)
	if err := s.store.DeleteSchedule(id, chi.URLParam(r, "scheduleID")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "schedule deleted", types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// schedulePresets are the bundles installable via the presets endpoint.
var schedulePresets = map[string][]types.Schedule{
	"daily-review": {
		{Name: "morning summary", Cron: "0 8 * * *", Action: "summarize_inbox", Enabled: true},
		{Name: "evening review", Cron: "0 18 * * *", Action: "review_goals", Enabled: true},
	},
	"maintenance": {
		{Name: "memory consolidation", Cron: "0 3 * * *", Action: "consolidate_memory", Enabled: true},
		{Name: "weekly cleanup", Cron: "0 4 * * 0", Action: "prune_stale_tasks", Enabled: true},
	},
}

func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	preset := chi.URLParam(r, "preset")
	schedules, ok := schedulePresets[preset]
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown preset")
		return
	}
	id := profileID(r)
	for _, sc := range schedules {
		if _, err := s.store.CreateSchedule(id, sc); err != nil {
			s.writeStoreError(w, err)
			return
		}
	}
	s.audit(id, types.AuditMutation, "schedule preset applied: "+preset, types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

// --- Tasks ---

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r)
	q := r.URL.Query()
	tasks, total, err := s.store.ListTasks(profileID(r),
		q["status"], q["assignedTo"], p.search, p.limit, p.offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "tasks", tasks, total)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title      string `json:"title"`
		AssignedTo string `json:"assignedTo"`
		DueAt      string `json:"dueAt"`
	}
	if !s.decodeBody(w, r, &in) {
		return
	}
	if in.Title == "" {
		s.writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	task := types.Task{Title: in.Title, AssignedTo: in.AssignedTo}
	if in.DueAt != "" {
		due, err := time.Parse(time.RFC3339, in.DueAt)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "dueAt must be RFC 3339")
			return
		}
		task.DueAt = &due
	}
	id := profileID(r)
	if _, err := s.store.CreateTask(id, task); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "task created: "+in.Title, types.AuditMetadata{})
	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status types.TaskStatus `json:"status"`
	}
	if !s.decodeBody(w, r, &in) {
		return
	}
	if in.Status == "" {
		s.writeError(w, http.StatusBadRequest, "status is required")
		return
	}
	id := profileID(r)
	taskID := chi.URLParam(r, "taskID")
	if err := s.store.SetTaskStatus(id, taskID, in.Status); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "task moved to "+string(in.Status), types.AuditMetadata{})
	s.hub.Broadcast("task:updated", map[string]string{"agenticId": id, "taskId": taskID})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := profileID(r)
	if err := s.store.DeleteTask(id, chi.URLParam(r, "taskID")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "task deleted", types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Self-prompts ---

func (s *Server) handleListSelfPrompts(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r)
	prompts, total, err := s.store.ListSelfPrompts(profileID(r),
		r.URL.Query()["status"], p.limit, p.offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "selfPrompts", prompts, total)
}

func (s *Server) setSelfPromptStatus(w http.ResponseWriter, r *http.Request, status types.SelfPromptStatus) {
	id := profileID(r)
	promptID := chi.URLParam(r, "promptID")
	if err := s.store.SetSelfPromptStatus(id, promptID, status); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "self-prompt "+string(status), types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (s *Server) handleApproveSelfPrompt(w http.ResponseWriter, r *http.Request) {
	s.setSelfPromptStatus(w, r, types.PromptApproved)
}

func (s *Server) handleRejectSelfPrompt(w http.ResponseWriter, r *http.Request) {
	s.setSelfPromptStatus(w, r, types.PromptRejected)
}

func (s *Server) handleDeleteSelfPrompt(w http.ResponseWriter, r *http.Request) {
	id := profileID(r)
	if err := s.store.DeleteSelfPrompt(id, chi.URLParam(r, "promptID")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "self-prompt deleted", types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Messages and threads ---

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r)
	q := r.URL.Query()
	messages, total, err := s.store.ListMessages(profileID(r),
		q["threadId"], q["direction"], p.limit, p.offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "messages", messages, total)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var in struct {
		To       string `json:"to"`
		Body     string `json:"body"`
		ThreadID string `json:"threadId"`
	}
	if !s.decodeBody(w, r, &in) {
		return
	}
	if in.To == "" || in.Body == "" {
		s.writeError(w, http.StatusBadRequest, "to and body are required")
		return
	}
	id := profileID(r)
	if _, err := s.store.InsertMessage(id, types.Message{
		ThreadID:  in.ThreadID,
		From:      id,
		To:        in.To,
		Direction: types.DirectionOutbound,
		Body:      in.Body,
	}); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "message sent to "+in.To, types.AuditMetadata{})
	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "sent"})
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r)
	threads, total, err := s.store.ListThreads(profileID(r), p.limit, p.offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "threads", threads, total)
}

// --- Self-learning ---

// learnCounters is the settings-backed persistent part of LearningStats.
// Pending-review counts come live from the review queue instead.
type learnCounters struct {
	TotalLearned  int        `json:"totalLearned"`
	Rejected      int        `json:"rejected"`
	LastLearnedAt *time.Time `json:"lastLearnedAt,omitempty"`
}

const (
	settingPersonality    = "personality"
	settingContactScope   = "contact_scope"
	settingMasterContact  = "master_contact"
	settingRouting        = "routing"
	settingLearningConfig = "learning_config"
	settingLearningStats  = "learning_stats"
)

// getSetting loads a settings document, falling back to def when the
// profile has never written one.
func getSetting[T any](s *Store, profileID, key string, def T) (T, error) {
	var v T
	err := s.GetSetting(profileID, key, &v)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return v, err
}

func (s *Server) handleGetLearningConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := getSetting(s.store, profileID(r), settingLearningConfig,
		types.LearningConfig{Enabled: true})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"config": cfg})
}

func (s *Server) handlePutLearningConfig(w http.ResponseWriter, r *http.Request) {
	var cfg types.LearningConfig
	if !s.decodeBody(w, r, &cfg) {
		return
	}
	id := profileID(r)
	if err := s.store.PutSetting(id, settingLearningConfig, cfg); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "self-learning config updated", types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleLearningStats(w http.ResponseWriter, r *http.Request) {
	id := profileID(r)
	counters, err := getSetting(s.store, id, settingLearningStats, learnCounters{})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	_, pending, err := s.store.ListPendingReviews(id, 1, 0)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, types.LearningStats{
		TotalLearned:  counters.TotalLearned,
		PendingReview: pending,
		Rejected:      counters.Rejected,
		LastLearnedAt: counters.LastLearnedAt,
	})
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r)
	reviews, total, err := s.store.ListPendingReviews(profileID(r), p.limit, p.offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "reviews", reviews, total)
}

func (s *Server) resolveReview(w http.ResponseWriter, r *http.Request, approve bool) {
	id := profileID(r)
	reviewID := chi.URLParam(r, "reviewID")
	if err := s.store.ResolvePendingReview(id, reviewID); err != nil {
		s.writeStoreError(w, err)
		return
	}

	counters, err := getSetting(s.store, id, settingLearningStats, learnCounters{})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	verdict := "rejected"
	if approve {
		now := time.Now().UTC()
		counters.TotalLearned++
		counters.LastLearnedAt = &now
		verdict = "approved"
	} else {
		counters.Rejected++
	}
	if err := s.store.PutSetting(id, settingLearningStats, counters); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, "learning review "+verdict, types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": verdict})
}

func (s *Server) handleApproveReview(w http.ResponseWriter, r *http.Request) {
	s.resolveReview(w, r, true)
}

func (s *Server) handleRejectReview(w http.ResponseWriter, r *http.Request) {
	s.resolveReview(w, r, false)
}

// --- Profile configuration singletons ---

func (s *Server) handleGetPersonality(w http.ResponseWriter, r *http.Request) {
	p, err := getSetting(s.store, profileID(r), settingPersonality,
		types.Personality{Tone: "neutral"})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutPersonality(w http.ResponseWriter, r *http.Request) {
	var p types.Personality
	if !s.decodeBody(w, r, &p) {
		return
	}
	s.putSingleton(w, r, settingPersonality, p, "personality updated")
}

func (s *Server) handleGetContactScope(w http.ResponseWriter, r *http.Request) {
	sc, err := getSetting(s.store, profileID(r), settingContactScope,
		types.ContactScope{Mode: "all"})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"contactScope": sc})
}

func (s *Server) handlePutContactScope(w http.ResponseWriter, r *http.Request) {
	var sc types.ContactScope
	if !s.decodeBody(w, r, &sc) {
		return
	}
	s.putSingleton(w, r, settingContactScope, sc, "contact scope updated")
}

func (s *Server) handleGetMasterContact(w http.ResponseWriter, r *http.Request) {
	m, err := getSetting(s.store, profileID(r), settingMasterContact, types.MasterContact{})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handlePutMasterContact(w http.ResponseWriter, r *http.Request) {
	var m types.MasterContact
	if !s.decodeBody(w, r, &m) {
		return
	}
	s.putSingleton(w, r, settingMasterContact, m, "master contact updated")
}

func (s *Server) handleGetRouting(w http.ResponseWriter, r *http.Request) {
	rc, err := getSetting(s.store, profileID(r), settingRouting,
		types.RoutingConfig{Strategy: "manual"})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rc)
}

func (s *Server) handlePutRouting(w http.ResponseWriter, r *http.Request) {
	var rc types.RoutingConfig
	if !s.decodeBody(w, r, &rc) {
		return
	}
	s.putSingleton(w, r, settingRouting, rc, "routing updated")
}

func (s *Server) putSingleton(w http.ResponseWriter, r *http.Request, key string, v any, summary string) {
	id := profileID(r)
	if err := s.store.PutSetting(id, key, v); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditMutation, summary, types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// --- Hierarchy and team ---

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	node, err := s.store.Hierarchy(profileID(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, node)
}

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	children, err := s.store.Children(profileID(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "children", children, len(children))
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.store.Team(profileID(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "team", team, len(team))
}

// --- Monitoring and control ---

func (s *Server) handleMonitoring(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.MonitorStatus(profileID(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleExecutionHistory(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r)
	q := r.URL.Query()
	executions, total, err := s.store.ListExecutions(profileID(r),
		q["status"], q["kind"], p.limit, p.offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.collection(w, "executions", executions, total)
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Action string `json:"action"`
	}
	if !s.decodeBody(w, r, &in) {
		return
	}
	var state string
	switch in.Action {
	case "pause":
		state = "paused"
	case "resume":
		state = "running"
	default:
		s.writeError(w, http.StatusBadRequest, "action must be pause or resume")
		return
	}
	id := profileID(r)
	if err := s.store.SetProfileState(id, state); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.audit(id, types.AuditSystem, "profile "+state, types.AuditMetadata{})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": state})
}
