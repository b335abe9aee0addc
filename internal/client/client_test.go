package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hyperengineering/steward/internal/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, StaticToken("test-token")), srv
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"goals":[],"total":0}`))
	})

	if _, err := c.ListGoals(context.Background(), "abc", ListParams{}); err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestClient_QuerySerialization(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"goals":[]}`))
	})

	p := ListParams{
		Limit:   50,
		Offset:  100,
		Search:  "ship",
		Filters: map[string][]string{"status": {"active"}, "tag": {""}},
	}
	if _, err := c.ListGoals(context.Background(), "abc", p); err != nil {
		t.Fatalf("ListGoals: %v", err)
	}

	// url.Values.Encode sorts keys; empty filter values are omitted.
	want := "limit=50&offset=100&search=ship&status=active"
	if gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
}

func TestClient_OmitsZeroParams(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"goals":[]}`))
	})

	if _, err := c.ListGoals(context.Background(), "abc", ListParams{}); err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("baseline query = %q, want empty", gotQuery)
	}
}

func TestClient_EnvelopeDecoding(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"goals":[{"id":"g1","title":"Ship v2","status":"active","progress":40}],"total":7}`))
	})

	page, err := c.ListGoals(context.Background(), "abc", ListParams{})
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "Ship v2" {
		t.Errorf("Items = %+v", page.Items)
	}
	if page.Total != 7 {
		t.Errorf("Total = %d, want 7", page.Total)
	}
}

func TestClient_EnvelopeTotalFallback(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tasks":[{"id":"t1","title":"a","status":"open"},{"id":"t2","title":"b","status":"open"}]}`))
	})

	page, err := c.ListTasks(context.Background(), "abc", ListParams{})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want item count fallback 2", page.Total)
	}
}

func TestClient_ServerErrorMessagePreferred(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error body convention", http.StatusBadRequest, `{"error":"cron expression is malformed"}`, "cron expression is malformed"},
		{"problem details detail", http.StatusUnprocessableEntity, `{"title":"Validation Error","detail":"title too long"}`, "title too long"},
		{"no body falls back to generic", http.StatusInternalServerError, ``, "request failed: Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := c.DeleteGoal(context.Background(), "abc", "g1")
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.message {
				t.Errorf("error = %q, want %q", err.Error(), tt.message)
			}
		})
	}
}

func TestClient_SentinelMapping(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusConflict, ErrConflict},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusBadGateway, ErrServer},
	}

	for _, tt := range tests {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		err := c.DeleteGoal(context.Background(), "abc", "g1")
		if !errors.Is(err, tt.sentinel) {
			t.Errorf("status %d: errors.Is(%v, %v) = false", tt.status, err, tt.sentinel)
		}
	}
}

func TestClient_ValidationBlocksNetwork(t *testing.T) {
	requests := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	tests := []struct {
		name string
		call func() error
	}{
		{"empty goal title", func() error {
			return c.CreateGoal(context.Background(), "abc", GoalInput{Title: "   "})
		}},
		{"empty memory content", func() error {
			return c.CreateMemory(context.Background(), "abc", MemoryInput{})
		}},
		{"empty search query", func() error {
			_, err := c.SearchMemories(context.Background(), "abc", "", 10)
			return err
		}},
		{"empty message body", func() error {
			return c.SendMessage(context.Background(), "abc", MessageInput{To: "other"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}

	if requests != 0 {
		t.Errorf("server saw %d requests, want 0", requests)
	}
}

func TestClient_NestedSingletonDecoding(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"contactScope":{"mode":"allowlist","contacts":["ops@example.com"]}}`))
	})

	scope, err := c.ContactScope(context.Background(), "abc")
	if err != nil {
		t.Fatalf("ContactScope: %v", err)
	}
	if scope.Mode != "allowlist" || len(scope.Contacts) != 1 {
		t.Errorf("scope = %+v", scope)
	}
}

func TestClient_PathScoping(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"entries":[]}`))
	})

	if _, err := c.AuditLog(context.Background(), "profile 1", ListParams{}); err != nil {
		t.Fatalf("AuditLog: %v", err)
	}
	if gotPath != "/agentic/profiles/profile%201/audit-log" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestClient_MutationIgnoresResponseBody(t *testing.T) {
	// Mutation endpoints may return the updated entity or nothing at all;
	// the client must not depend on the body either way.
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.Write([]byte(`{"id":"g1","title":"Ship v2","status":"completed"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.SetGoalStatus(context.Background(), "abc", "g1", types.GoalCompleted); err != nil {
		t.Fatalf("SetGoalStatus: %v", err)
	}
	if err := c.Pause(context.Background(), "abc"); err != nil {
		t.Fatalf("Pause: %v", err)
	}
}
