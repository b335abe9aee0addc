package types

import (
	"encoding/json"
	"math"
	"time"
)

// Skill is a learned capability with experience-based leveling.
//
// The wire format carries duplicated legacy field pairs from an in-flight
// backend rename (level/currentLevel, experience/experiencePoints,
// nextLevelXp/nextLevelExperience). Normalization happens once here, at the
// decode boundary, so render and business code only ever see the canonical
// fields.
type Skill struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Level       int        `json:"level"`
	XP          int        `json:"experience"`
	NextLevelXP int        `json:"nextLevelXp"`
	UsageCount  int        `json:"usageCount,omitempty"`
	LastUsedAt  *time.Time `json:"lastUsedAt,omitempty"`

	// WireProgress is the server-computed percentage when present. Use
	// Progress() instead of reading this directly.
	WireProgress *int `json:"progress,omitempty"`
}

// skillWire mirrors the raw JSON including all legacy alias pairs.
type skillWire struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Level               *int       `json:"level"`
	CurrentLevel        *int       `json:"currentLevel"`
	Experience          *int       `json:"experience"`
	ExperiencePoints    *int       `json:"experiencePoints"`
	NextLevelXP         *int       `json:"nextLevelXp"`
	NextLevelExperience *int       `json:"nextLevelExperience"`
	Progress            *int       `json:"progress"`
	UsageCount          int        `json:"usageCount"`
	LastUsedAt          *time.Time `json:"lastUsedAt"`
}

// UnmarshalJSON decodes a skill, preferring the modern field of each legacy
// alias pair and falling back to the old name when the modern one is absent.
func (s *Skill) UnmarshalJSON(data []byte) error {
	var w skillWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	s.ID = w.ID
	s.Name = w.Name
	s.Level = coalesceInt(w.CurrentLevel, w.Level)
	s.XP = coalesceInt(w.ExperiencePoints, w.Experience)
	s.NextLevelXP = coalesceInt(w.NextLevelExperience, w.NextLevelXP)
	s.WireProgress = w.Progress
	s.UsageCount = w.UsageCount
	s.LastUsedAt = w.LastUsedAt
	return nil
}

// Progress returns the level-completion percentage in [0, 100]. The
// server-provided value wins when present; otherwise it is derived from the
// XP counters, matching the server's own formula.
func (s *Skill) Progress() int {
	if s.WireProgress != nil {
		return clampPercent(*s.WireProgress)
	}
	if s.NextLevelXP <= 0 {
		return 0
	}
	pct := int(math.Round(float64(s.XP) / float64(s.NextLevelXP) * 100))
	return clampPercent(pct)
}

func coalesceInt(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
