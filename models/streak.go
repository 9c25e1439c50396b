package models

import "time"

// StreakState tracks consecutive calendar days with at least one task
// completion. LongestStreak is a historical high-water mark and never
// decreases; LastCompletionDate is the most recent local calendar day with a
// completion, nil if nothing was ever completed.
type StreakState struct {
	CurrentStreak      int        `json:"current_streak"`
	LongestStreak      int        `json:"longest_streak"`
	LastCompletionDate *time.Time `json:"last_completion_date,omitempty"`
}

// StreakMilestones are the streak lengths that trigger a one-time bonus.
// The bonus amounts live on the matching streak_days achievements in the
// catalog so they are awarded exactly once, at unlock.
var StreakMilestones = []int{3, 7, 14, 30}

func IsStreakMilestone(days int) bool {
	for _, m := range StreakMilestones {
		if m == days {
			return true
		}
	}
	return false
}
