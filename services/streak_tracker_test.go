package services

import (
	"testing"
	"time"

	"task-reward-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dayAt returns an afternoon timestamp on day n of a fixed month.
func dayAt(n int) time.Time {
	base := time.Date(2026, time.March, 1, 15, 30, 0, 0, time.UTC)
	return base.AddDate(0, 0, n-1)
}

func TestRecordCompletionFirstEver(t *testing.T) {
	tr := NewStreakTracker(models.StreakState{})

	upd := tr.RecordCompletion(dayAt(1))

	assert.True(t, upd.Changed)
	assert.Equal(t, 1, upd.CurrentStreak)
	assert.Equal(t, 0, upd.MilestoneDays)

	st := tr.State()
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 1, st.LongestStreak)
	require.NotNil(t, st.LastCompletionDate)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), *st.LastCompletionDate)
}

func TestRecordCompletionSameDayDoesNotDoubleCount(t *testing.T) {
	tr := NewStreakTracker(models.StreakState{})

	tr.RecordCompletion(dayAt(1))
	upd := tr.RecordCompletion(dayAt(1).Add(2 * time.Hour))

	assert.False(t, upd.Changed)
	assert.Equal(t, 1, tr.State().CurrentStreak)
	assert.Equal(t, 1, tr.State().LongestStreak)
}

func TestRecordCompletionConsecutiveDays(t *testing.T) {
	tr := NewStreakTracker(models.StreakState{})

	tr.RecordCompletion(dayAt(1))
	tr.RecordCompletion(dayAt(2))
	upd := tr.RecordCompletion(dayAt(3))

	assert.Equal(t, 3, upd.CurrentStreak)
	assert.Equal(t, 3, upd.MilestoneDays, "landing exactly on 3 is a milestone")
	assert.Equal(t, 3, tr.State().LongestStreak)
}

func TestRecordCompletionGapResets(t *testing.T) {
	tr := NewStreakTracker(models.StreakState{})

	tr.RecordCompletion(dayAt(1))
	upd := tr.RecordCompletion(dayAt(3))

	assert.Equal(t, 1, upd.CurrentStreak)
	assert.Equal(t, 1, tr.State().CurrentStreak)
	assert.Equal(t, 1, tr.State().LongestStreak)
}

func TestRecordCompletionBackdatedResets(t *testing.T) {
	tr := NewStreakTracker(models.StreakState{})

	tr.RecordCompletion(dayAt(5))
	upd := tr.RecordCompletion(dayAt(3))

	// Completion earlier than the recorded last day is a clock anomaly and
	// resets defensively.
	assert.Equal(t, 1, upd.CurrentStreak)
	require.NotNil(t, tr.State().LastCompletionDate)
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), *tr.State().LastCompletionDate)
}

func TestLongestStreakNeverDecreases(t *testing.T) {
	tr := NewStreakTracker(models.StreakState{})

	for d := 1; d <= 3; d++ {
		tr.RecordCompletion(dayAt(d))
	}
	require.Equal(t, 3, tr.State().LongestStreak)

	// Break the streak and rebuild a shorter one.
	tr.RecordCompletion(dayAt(10))
	tr.RecordCompletion(dayAt(11))

	assert.Equal(t, 2, tr.State().CurrentStreak)
	assert.Equal(t, 3, tr.State().LongestStreak)

	// A full recompute over a sparse history must not lower it either.
	tr.Recompute([]time.Time{dayAt(10), dayAt(11)})
	assert.Equal(t, 3, tr.State().LongestStreak)
}

func TestRecomputeEmptyClearsCurrentOnly(t *testing.T) {
	tr := NewStreakTracker(models.StreakState{})
	for d := 1; d <= 3; d++ {
		tr.RecordCompletion(dayAt(d))
	}

	tr.Recompute(nil)

	st := tr.State()
	assert.Equal(t, 0, st.CurrentStreak)
	assert.Nil(t, st.LastCompletionDate)
	assert.Equal(t, 3, st.LongestStreak, "longest is a historical high-water mark")
}

func TestRecomputeWalksFromMostRecentDay(t *testing.T) {
	tr := NewStreakTracker(models.StreakState{})

	// Remaining completions on days 1 and 3: the run from the most recent
	// day has length 1.
	tr.Recompute([]time.Time{dayAt(1), dayAt(3)})

	st := tr.State()
	assert.Equal(t, 1, st.CurrentStreak)
	require.NotNil(t, st.LastCompletionDate)
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), *st.LastCompletionDate)
}

func TestRecomputeCountsDistinctDaysOnce(t *testing.T) {
	tr := NewStreakTracker(models.StreakState{})

	tr.Recompute([]time.Time{
		dayAt(2), dayAt(2).Add(time.Hour), dayAt(3), dayAt(4), dayAt(4).Add(5 * time.Hour),
	})

	assert.Equal(t, 3, tr.State().CurrentStreak)
}

func TestRecomputeAgreesWithIncremental(t *testing.T) {
	incremental := NewStreakTracker(models.StreakState{})
	completions := []time.Time{dayAt(1), dayAt(2), dayAt(3), dayAt(4)}
	for _, ts := range completions {
		incremental.RecordCompletion(ts)
	}

	// Deleting a non-bridging completion (the oldest day) and recomputing
	// must agree with computing fresh from the remaining days.
	remaining := completions[1:]
	incremental.Recompute(remaining)

	fresh := NewStreakTracker(models.StreakState{})
	fresh.Recompute(remaining)

	assert.Equal(t, fresh.State().CurrentStreak, incremental.State().CurrentStreak)
	assert.Equal(t, 3, incremental.State().CurrentStreak)
}

func TestRecomputeMixedLocationTimestamps(t *testing.T) {
	tr := NewStreakTracker(models.StreakState{})
	cest := time.FixedZone("CEST", 2*60*60)

	// The same calendar day observed through different locations (snapshot
	// round trips restore UTC, wall clocks report local time) must still
	// count as one day.
	tr.Recompute([]time.Time{
		dayAt(3),
		dayAt(3).In(cest),
		dayAt(2).In(cest),
		dayAt(1),
	})

	st := tr.State()
	assert.Equal(t, 3, st.CurrentStreak)
	require.NotNil(t, st.LastCompletionDate)
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), *st.LastCompletionDate)
}

func TestRecordCompletionAcrossLocations(t *testing.T) {
	tr := NewStreakTracker(models.StreakState{})
	cest := time.FixedZone("CEST", 2*60*60)

	tr.RecordCompletion(dayAt(1))
	upd := tr.RecordCompletion(dayAt(2).In(cest))

	assert.Equal(t, 2, upd.CurrentStreak)

	// Same day seen through another location is still a same-day repeat.
	upd = tr.RecordCompletion(dayAt(2).Add(3 * time.Hour).In(cest))
	assert.False(t, upd.Changed)
	assert.Equal(t, 2, tr.State().CurrentStreak)
}

func TestDaysBetweenAcrossMonthBoundary(t *testing.T) {
	a := time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween(a, b))
	assert.Equal(t, -1, daysBetween(b, a))
}
