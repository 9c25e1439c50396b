package services

import (
	"testing"

	"task-reward-system/models"

	"github.com/stretchr/testify/assert"
)

func TestAwardAccumulatesAndLevels(t *testing.T) {
	l := NewPointsLedger(models.PointsState{})

	l.Award(60, "test")
	l.Award(60, "test")

	st := l.State()
	assert.Equal(t, 120, st.CurrentPoints)
	assert.Equal(t, 120, st.TotalPointsEarned)
	assert.Equal(t, 1, st.Level)
}

func TestDeductClampsAtZero(t *testing.T) {
	l := NewPointsLedger(models.PointsState{})

	l.Award(10, "test")
	l.Deduct(25)

	st := l.State()
	assert.Equal(t, 0, st.CurrentPoints)
	assert.Equal(t, 0, st.Level)
	assert.Equal(t, 10, st.TotalPointsEarned, "lifetime counter is unaffected by deduction")
}

func TestDeductLowersLevel(t *testing.T) {
	l := NewPointsLedger(models.PointsState{})

	l.Award(150, "test")
	assert.Equal(t, 1, l.Level())

	l.Deduct(60)
	assert.Equal(t, 0, l.Level())
	assert.Equal(t, 90, l.State().CurrentPoints)
}

func TestAwardIgnoresNonPositiveAmounts(t *testing.T) {
	l := NewPointsLedger(models.PointsState{})

	l.Award(0, "test")
	l.Award(-5, "test")

	assert.Equal(t, models.PointsState{}, l.State())
}

func TestLevelForPointsBoundaries(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{points: 0, want: 0},
		{points: 99, want: 0},
		{points: 100, want: 1},
		{points: 199, want: 1},
		{points: 1000, want: 10},
		{points: -5, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, models.LevelForPoints(tt.points), "points=%d", tt.points)
	}
}

func TestLedgerRecomputesLevelOnRestore(t *testing.T) {
	l := NewPointsLedger(models.PointsState{CurrentPoints: 250, TotalPointsEarned: 400, Level: 99})
	assert.Equal(t, 2, l.Level())
}
