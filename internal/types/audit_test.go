package types

import (
	"encoding/json"
	"testing"
)

func TestAuditMetadata_TaggedFields(t *testing.T) {
	input := `{
		"messages": [{"role":"user","content":"plan the day"}],
		"budget": {"maxTokens": 4096},
		"tool": "calendar.list",
		"traceId": "abc-123"
	}`

	var m AuditMetadata
	if err := json.Unmarshal([]byte(input), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(m.Messages) != 1 || m.Messages[0].Role != "user" {
		t.Errorf("Messages = %+v, want one user message", m.Messages)
	}
	if m.Budget == nil || m.Budget.MaxTokens != 4096 {
		t.Errorf("Budget = %+v, want maxTokens 4096", m.Budget)
	}
	if m.Tool != "calendar.list" {
		t.Errorf("Tool = %q", m.Tool)
	}

	// Unrecognized keys land in Rest, not on the floor.
	if _, ok := m.Rest["traceId"]; !ok {
		t.Errorf("Rest missing traceId: %v", m.Rest)
	}
}

func TestAuditMetadata_RoundTrip(t *testing.T) {
	orig := AuditMetadata{
		FullResponse: "done",
		TokensUsed:   120,
		Rest: map[string]json.RawMessage{
			"model": json.RawMessage(`"sonnet"`),
		},
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back AuditMetadata
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if back.FullResponse != "done" || back.TokensUsed != 120 {
		t.Errorf("round trip lost typed fields: %+v", back)
	}
	if string(back.Rest["model"]) != `"sonnet"` {
		t.Errorf("round trip lost residual key: %v", back.Rest)
	}
}

func TestAuditMetadata_Empty(t *testing.T) {
	var m AuditMetadata
	if !m.IsEmpty() {
		t.Error("zero metadata should be empty")
	}
	m.Tool = "x"
	if m.IsEmpty() {
		t.Error("metadata with a tool is not empty")
	}
}
