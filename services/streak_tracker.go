package services

import (
	"math"
	"sort"
	"time"

	"task-reward-system/models"
)

// StreakTracker derives current/longest streak from completion timestamps.
// Incremental updates handle single new completions; anything that removes a
// completion (delete, un-complete) must go through Recompute, since
// incremental bookkeeping cannot safely undo.
type StreakTracker struct {
	state models.StreakState
}

func NewStreakTracker(state models.StreakState) *StreakTracker {
	return &StreakTracker{state: state}
}

func (t *StreakTracker) State() models.StreakState {
	return t.state
}

// StreakUpdate describes the outcome of one recorded completion.
type StreakUpdate struct {
	Changed       bool
	CurrentStreak int
	// MilestoneDays is non-zero when the streak landed exactly on a milestone
	// length with this completion. Milestones fire on this path only.
	MilestoneDays int
}

// RecordCompletion applies the incremental streak rules for one new
// completion at the given timestamp.
func (t *StreakTracker) RecordCompletion(at time.Time) StreakUpdate {
	today := startOfDay(at)

	if t.state.LastCompletionDate == nil {
		t.state.CurrentStreak = 1
	} else {
		gap := daysBetween(startOfDay(*t.state.LastCompletionDate), today)
		switch {
		case gap == 0:
			// Same-day repeat: the streak already counted today.
			return StreakUpdate{Changed: false, CurrentStreak: t.state.CurrentStreak}
		case gap == 1:
			t.state.CurrentStreak++
		default:
			// gap > 1 means the streak broke. gap < 0 means the completion
			// predates the recorded last day (clock anomaly); reset rather
			// than guess.
			t.state.CurrentStreak = 1
		}
	}

	if t.state.CurrentStreak > t.state.LongestStreak {
		t.state.LongestStreak = t.state.CurrentStreak
	}
	t.state.LastCompletionDate = &today

	upd := StreakUpdate{Changed: true, CurrentStreak: t.state.CurrentStreak}
	if models.IsStreakMilestone(t.state.CurrentStreak) {
		upd.MilestoneDays = t.state.CurrentStreak
	}
	return upd
}

// Recompute re-derives the current streak from the full set of completion
// timestamps of currently completed tasks. LongestStreak is a high-water mark
// and is never lowered. Milestone bonuses are deliberately not re-checked
// here: a streak rebuilt by a deletion-triggered recompute must not re-award.
func (t *StreakTracker) Recompute(completions []time.Time) {
	days := distinctDaysDescending(completions)

	if len(days) == 0 {
		t.state.CurrentStreak = 0
		t.state.LastCompletionDate = nil
		return
	}

	run := 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i], days[i-1]) != 1 {
			break
		}
		run++
	}

	t.state.CurrentStreak = run
	last := days[0]
	t.state.LastCompletionDate = &last
	if run > t.state.LongestStreak {
		t.state.LongestStreak = run
	}
}

// distinctDaysDescending reduces timestamps to their distinct calendar days,
// most recent first. startOfDay yields normalized UTC midnights, so the map
// key compares by date alone regardless of each timestamp's location.
func distinctDaysDescending(timestamps []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(timestamps))
	days := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		day := startOfDay(ts)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

// startOfDay maps a timestamp to its calendar day in the timestamp's own
// location, normalized to a UTC midnight. Normalizing makes days from mixed
// locations comparable: snapshot round trips and wall clocks disagree on
// Location, and two boundaries for the same date must compare equal.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from one day boundary to another.
// Rounding absorbs DST-shortened/lengthened days and boundaries carried in
// from snapshots predating day normalization.
func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
