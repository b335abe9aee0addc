package types

import (
	"encoding/json"
	"time"
)

// AuditCategory classifies an audit-log entry and determines which metadata
// fields are meaningful.
type AuditCategory string

const (
	AuditAIRequest  AuditCategory = "ai_request"
	AuditAIResponse AuditCategory = "ai_response"
	AuditToolCall   AuditCategory = "tool_call"
	AuditMutation   AuditCategory = "mutation"
	AuditSystem     AuditCategory = "system"
)

// AuditEntry is one row of a profile's audit log.
type AuditEntry struct {
	ID        string        `json:"id"`
	AgenticID string        `json:"agenticId"`
	Category  AuditCategory `json:"category"`
	Summary   string        `json:"summary"`
	Metadata  AuditMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// AuditMetadata is the per-category payload of an audit entry. The typed
// fields cover the keys consumers actually branch on; Rest preserves any
// unrecognized keys so nothing is lost on a round trip.
type AuditMetadata struct {
	// ai_request
	Messages []AuditMessage `json:"-"`
	Budget   *AuditBudget   `json:"-"`

	// ai_response
	FullResponse string `json:"-"`
	TokensUsed   int    `json:"-"`

	// tool_call
	Tool      string          `json:"-"`
	Arguments json.RawMessage `json:"-"`

	// Residual open map for keys the client does not model.
	Rest map[string]json.RawMessage `json:"-"`
}

// AuditMessage is one chat message inside an ai_request payload.
type AuditMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AuditBudget is the token/cost budget attached to an ai_request.
type AuditBudget struct {
	MaxTokens int     `json:"maxTokens,omitempty"`
	MaxCost   float64 `json:"maxCost,omitempty"`
}

// knownMetadataKeys are lifted out of Rest into typed fields.
var knownMetadataKeys = map[string]bool{
	"messages":     true,
	"budget":       true,
	"fullResponse": true,
	"tokensUsed":   true,
	"tool":         true,
	"arguments":    true,
}

// UnmarshalJSON splits the raw metadata object into typed fields and the
// residual Rest map.
func (m *AuditMetadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = AuditMetadata{}
	for key, val := range raw {
		switch key {
		case "messages":
			if err := json.Unmarshal(val, &m.Messages); err != nil {
				return err
			}
		case "budget":
			if err := json.Unmarshal(val, &m.Budget); err != nil {
				return err
			}
		case "fullResponse":
			if err := json.Unmarshal(val, &m.FullResponse); err != nil {
				return err
			}
		case "tokensUsed":
			if err := json.Unmarshal(val, &m.TokensUsed); err != nil {
				return err
			}
		case "tool":
			if err := json.Unmarshal(val, &m.Tool); err != nil {
				return err
			}
		case "arguments":
			m.Arguments = val
		default:
			if m.Rest == nil {
				m.Rest = make(map[string]json.RawMessage)
			}
			m.Rest[key] = val
		}
	}
	return nil
}

// MarshalJSON recombines typed fields and Rest into a single object.
func (m AuditMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Rest)+6)
	for key, val := range m.Rest {
		if !knownMetadataKeys[key] {
			out[key] = val
		}
	}
	if len(m.Messages) > 0 {
		out["messages"] = m.Messages
	}
	if m.Budget != nil {
		out["budget"] = m.Budget
	}
	if m.FullResponse != "" {
		out["fullResponse"] = m.FullResponse
	}
	if m.TokensUsed != 0 {
		out["tokensUsed"] = m.TokensUsed
	}
	if m.Tool != "" {
		out["tool"] = m.Tool
	}
	if len(m.Arguments) > 0 {
		out["arguments"] = m.Arguments
	}
	return json.Marshal(out)
}

// IsEmpty reports whether the metadata carries no payload at all.
func (m AuditMetadata) IsEmpty() bool {
	return len(m.Messages) == 0 && m.Budget == nil && m.FullResponse == "" &&
		m.TokensUsed == 0 && m.Tool == "" && len(m.Arguments) == 0 && len(m.Rest) == 0
}
