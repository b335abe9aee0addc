package types

import (
	"time"
)

// GoalStatus represents the lifecycle state of a goal. The set is closed and
// owned by the server; clients never transition a goal except through a
// mutation endpoint.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalPaused    GoalStatus = "paused"
	GoalCompleted GoalStatus = "completed"
	GoalFailed    GoalStatus = "failed"
)

// Goal is a long-running objective tracked for an agentic profile.
type Goal struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      GoalStatus `json:"status"`
	Progress    int        `json:"progress"`
	Priority    int        `json:"priority,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Memory is a single stored memory entry.
type Memory struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Category   string    `json:"category,omitempty"`
	Importance float64   `json:"importance,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Schedule is a recurring action definition.
type Schedule struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Cron      string     `json:"cron"`
	Action    string     `json:"action"`
	Enabled   bool       `json:"enabled"`
	LastRunAt *time.Time `json:"lastRunAt,omitempty"`
	NextRunAt *time.Time `json:"nextRunAt,omitempty"`
}

// SelfPromptStatus is the review state of a queued self-prompt.
type SelfPromptStatus string

const (
	PromptPending  SelfPromptStatus = "pending"
	PromptApproved SelfPromptStatus = "approved"
	PromptRejected SelfPromptStatus = "rejected"
	PromptExecuted SelfPromptStatus = "executed"
)

// SelfPrompt is an agent-generated prompt awaiting operator review.
type SelfPrompt struct {
	ID           string           `json:"id"`
	Prompt       string           `json:"prompt"`
	Status       SelfPromptStatus `json:"status"`
	ScheduledFor *time.Time       `json:"scheduledFor,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// TaskStatus is the lifecycle state of a tracked task.
type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskCancelled  TaskStatus = "cancelled"
)

// Task is a discrete unit of work assigned to a profile.
type Task struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Status     TaskStatus `json:"status"`
	DueAt      *time.Time `json:"dueAt,omitempty"`
	AssignedTo string     `json:"assignedTo,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// MessageDirection distinguishes inbound from outbound AI-to-AI messages.
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

// Message is a single AI-to-AI message within a thread.
type Message struct {
	ID        string           `json:"id"`
	ThreadID  string           `json:"threadId"`
	From      string           `json:"from"`
	To        string           `json:"to"`
	Direction MessageDirection `json:"direction"`
	Body      string           `json:"body"`
	SentAt    time.Time        `json:"sentAt"`
}

// Thread groups messages exchanged with one counterpart.
type Thread struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	MessageCount  int       `json:"messageCount"`
}

// ExecutionStatus is the state of one reasoning/execution run.
type ExecutionStatus string

const (
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionSucceeded ExecutionStatus = "succeeded"
	ExecutionFailed    ExecutionStatus = "failed"
)

// Execution is one completed or in-flight run from the execution history.
type Execution struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Status     ExecutionStatus `json:"status"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt *time.Time      `json:"finishedAt,omitempty"`
	Summary    string          `json:"summary,omitempty"`
}

// KnowledgeItem is one curated knowledge-base entry.
type KnowledgeItem struct {
	ID      string    `json:"id"`
	Topic   string    `json:"topic"`
	Content string    `json:"content"`
	Source  string    `json:"source,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

// Personality is the profile-level personality configuration.
type Personality struct {
	Tone         string   `json:"tone"`
	Instructions string   `json:"instructions,omitempty"`
	Traits       []string `json:"traits,omitempty"`
}

// ContactScope restricts which contacts a profile may interact with.
type ContactScope struct {
	Mode     string   `json:"mode"` // "all", "allowlist", "none"
	Contacts []string `json:"contacts,omitempty"`
}

// MasterContact is the human owner a profile escalates to.
type MasterContact struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Channel string `json:"channel,omitempty"`
}

// RoutingConfig controls how inbound work is routed within a hierarchy.
type RoutingConfig struct {
	Strategy   string `json:"strategy"` // "round_robin", "capability", "manual"
	FallbackTo string `json:"fallbackTo,omitempty"`
}

// LearningConfig holds the self-learning toggles for a profile.
type LearningConfig struct {
	Enabled         bool    `json:"enabled"`
	AutoApprove     bool    `json:"autoApprove"`
	ReviewThreshold float64 `json:"reviewThreshold,omitempty"`
}

// LearningStats summarizes self-learning activity.
type LearningStats struct {
	TotalLearned  int        `json:"totalLearned"`
	PendingReview int        `json:"pendingReview"`
	Rejected      int        `json:"rejected"`
	LastLearnedAt *time.Time `json:"lastLearnedAt,omitempty"`
}

// PendingReview is one self-learning item awaiting operator approval.
type PendingReview struct {
	ID          string         `json:"id"`
	Kind        string         `json:"kind"`
	Payload     map[string]any `json:"payload,omitempty"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// MonitorStatus is the live health snapshot of a profile.
type MonitorStatus struct {
	AgenticID     string     `json:"agenticId"`
	State         string     `json:"state"` // "running", "paused", "error"
	ActiveGoals   int        `json:"activeGoals"`
	QueuedPrompts int        `json:"queuedPrompts"`
	LastActiveAt  *time.Time `json:"lastActiveAt,omitempty"`
	Uptime        string     `json:"uptime,omitempty"`
}

// HierarchyNode is one node of the parent/child agent tree.
type HierarchyNode struct {
	AgenticID string          `json:"agenticId"`
	Name      string          `json:"name"`
	Role      string          `json:"role,omitempty"`
	Children  []HierarchyNode `json:"children,omitempty"`
}

// TeamMember is one sibling profile within a team.
type TeamMember struct {
	AgenticID string `json:"agenticId"`
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	Status    string `json:"status,omitempty"`
}
