package types

import (
	"encoding/json"
	"testing"
)

func TestSkill_UnmarshalLegacyAliases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		level    int
		xp       int
		nextXP   int
		progress int
	}{
		{
			name:     "modern field names",
			input:    `{"id":"s1","name":"research","currentLevel":3,"experiencePoints":150,"nextLevelExperience":200}`,
			level:    3,
			xp:       150,
			nextXP:   200,
			progress: 75,
		},
		{
			name:     "legacy field names",
			input:    `{"id":"s1","name":"research","level":2,"experience":40,"nextLevelXp":100}`,
			level:    2,
			xp:       40,
			nextXP:   100,
			progress: 40,
		},
		{
			name:     "modern wins when both present",
			input:    `{"id":"s1","name":"research","level":1,"currentLevel":4,"experience":10,"experiencePoints":90,"nextLevelXp":50,"nextLevelExperience":100}`,
			level:    4,
			xp:       90,
			nextXP:   100,
			progress: 90,
		},
		{
			name:     "server progress preferred over derived",
			input:    `{"id":"s1","name":"research","experience":90,"nextLevelXp":100,"progress":42}`,
			progress: 42,
			xp:       90,
			nextXP:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Skill
			if err := json.Unmarshal([]byte(tt.input), &s); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if s.Level != tt.level {
				t.Errorf("Level = %d, want %d", s.Level, tt.level)
			}
			if s.XP != tt.xp {
				t.Errorf("XP = %d, want %d", s.XP, tt.xp)
			}
			if s.NextLevelXP != tt.nextXP {
				t.Errorf("NextLevelXP = %d, want %d", s.NextLevelXP, tt.nextXP)
			}
			if got := s.Progress(); got != tt.progress {
				t.Errorf("Progress() = %d, want %d", got, tt.progress)
			}
		})
	}
}

func TestSkill_ProgressClamping(t *testing.T) {
	// XP past the level boundary must not exceed 100%.
	s := Skill{XP: 250, NextLevelXP: 100}
	if got := s.Progress(); got != 100 {
		t.Errorf("Progress() = %d, want 100", got)
	}

	// Missing next-level threshold yields 0, not a division panic.
	s = Skill{XP: 50}
	if got := s.Progress(); got != 0 {
		t.Errorf("Progress() = %d, want 0", got)
	}
}
