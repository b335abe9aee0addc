package devserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/hyperengineering/steward/internal/types"
)

// ScheduleCoordinator simulates the production scheduler: on each tick it
// fires enabled schedules that are due, records an execution and an audit
// entry, and pushes the audit entry to WebSocket clients. Cron expressions
// are not evaluated here; a fired schedule is simply rearmed a day out,
// which is enough for dashboards under development to see activity.
type ScheduleCoordinator struct {
	store    *Store
	hub      *Hub
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduleCoordinator creates a coordinator ticking at the given interval.
func NewScheduleCoordinator(store *Store, hub *Hub, interval time.Duration, logger *slog.Logger) *ScheduleCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleCoordinator{
		store:    store,
		hub:      hub,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the coordinator loop. It blocks until ctx is cancelled. The
// first pass waits for a full interval so server startup stays quiet.
func (c *ScheduleCoordinator) Run(ctx context.Context) {
	c.logger.Info("schedule coordinator started",
		"component", "worker",
		"worker", "schedule-coordinator",
		"interval", c.interval.String(),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("schedule coordinator stopped",
				"component", "worker",
				"worker", "schedule-coordinator",
			)
			return
		case <-ticker.C:
			if err := c.runDue(ctx); err != nil {
				c.logger.Error("schedule pass failed",
					"component", "worker",
					"worker", "schedule-coordinator",
					"error", err,
				)
			}
		}
	}
}

func (c *ScheduleCoordinator) runDue(ctx context.Context) error {
	due, err := c.store.DueSchedules(time.Now())
	if err != nil {
		return err
	}

	for _, d := range due {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		finished := time.Now()
		if _, err := c.store.InsertExecution(d.ProfileID, types.Execution{
			Kind:       "schedule",
			Status:     types.ExecutionSucceeded,
			Summary:    "schedule fired: " + d.Schedule.Name,
			StartedAt:  finished,
			FinishedAt: &finished,
		}); err != nil {
			return err
		}

		entry, err := c.store.InsertAudit(d.ProfileID, types.AuditSystem,
			"schedule fired: "+d.Schedule.Name, types.AuditMetadata{})
		if err != nil {
			return err
		}
		c.hub.Broadcast("audit:new", map[string]any{
			"agenticId": d.ProfileID,
			"entry":     entry,
		})

		next := finished.Add(24 * time.Hour)
		if err := c.store.MarkScheduleRun(d.ProfileID, d.Schedule.ID, finished, next); err != nil {
			return err
		}

		c.logger.Debug("schedule fired",
			"component", "worker",
			"profile", d.ProfileID,
			"schedule", d.Schedule.Name,
		)
	}
	return nil
}
