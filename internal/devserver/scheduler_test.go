package devserver

import (
	"context"
	"testing"
	"time"

	"github.com/hyperengineering/steward/internal/types"
)

func TestDueSchedulesSelection(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateSchedule("p1", types.Schedule{Name: "never-ran", Cron: "0 8 * * *", Enabled: true}); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	if _, err := s.CreateSchedule("p1", types.Schedule{Name: "armed-later", Cron: "0 9 * * *", Enabled: true, NextRunAt: &future}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateSchedule("p1", types.Schedule{Name: "disabled", Cron: "0 10 * * *", Enabled: false}); err != nil {
		t.Fatal(err)
	}

	due, err := s.DueSchedules(time.Now())
	if err != nil {
		t.Fatalf("DueSchedules: %v", err)
	}
	if len(due) != 1 || due[0].Schedule.Name != "never-ran" {
		t.Fatalf("due = %+v, want only never-ran", due)
	}
}

func TestScheduleFiringRecordsExecutionAndRearms(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateSchedule("p1", types.Schedule{Name: "nightly", Cron: "0 3 * * *", Enabled: true}); err != nil {
		t.Fatal(err)
	}

	c := NewScheduleCoordinator(s, NewHub(nil), time.Minute, nil)
	if err := c.runDue(context.Background()); err != nil {
		t.Fatalf("runDue: %v", err)
	}

	executions, _, err := s.ListExecutions("p1", nil, []string{"schedule"}, 10, 0)
	if err != nil {
		t.Fatalf("ListExecutions: %v", err)
	}
	if len(executions) != 1 || executions[0].Status != types.ExecutionSucceeded {
		t.Fatalf("execution not recorded: %+v", executions)
	}

	entries, _, err := s.ListAudit("p1", []string{"system"}, "", 10, 0)
	if err != nil {
		t.Fatalf("ListAudit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit entry not recorded: %+v", entries)
	}

	// Rearmed: nothing is due anymore.
	due, err := s.DueSchedules(time.Now())
	if err != nil {
		t.Fatalf("DueSchedules: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("schedule still due after firing: %+v", due)
	}

	schedules, _, err := s.ListSchedules("p1", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if schedules[0].LastRunAt == nil || schedules[0].NextRunAt == nil {
		t.Fatalf("run times not recorded: %+v", schedules[0])
	}
}
