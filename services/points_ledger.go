package services

import (
	"log"

	"task-reward-system/models"
)

// PointsLedger accumulates points from completions, streak milestones, and
// achievement bonuses, and derives the level from the current balance.
type PointsLedger struct {
	state models.PointsState
}

func NewPointsLedger(state models.PointsState) *PointsLedger {
	// Level is derived state; recompute in case the snapshot predates a
	// PointsPerLevel change.
	state.Level = models.LevelForPoints(state.CurrentPoints)
	return &PointsLedger{state: state}
}

func (l *PointsLedger) State() models.PointsState {
	return l.state
}

func (l *PointsLedger) Level() int {
	return l.state.Level
}

// Award adds earned points. TotalPointsEarned is a lifetime counter and only
// counts positive, earned amounts.
func (l *PointsLedger) Award(amount int, source string) {
	if amount <= 0 {
		return
	}
	l.state.CurrentPoints += amount
	l.state.TotalPointsEarned += amount
	l.state.Level = models.LevelForPoints(l.state.CurrentPoints)
	log.Printf("🎮 Points awarded: +%d (%s) → balance=%d, level=%d",
		amount, source, l.state.CurrentPoints, l.state.Level)
}

// Deduct removes points from the balance, clamped at zero. The lifetime
// earned counter is unaffected.
func (l *PointsLedger) Deduct(amount int) {
	if amount <= 0 {
		return
	}
	l.state.CurrentPoints -= amount
	if l.state.CurrentPoints < 0 {
		l.state.CurrentPoints = 0
	}
	l.state.Level = models.LevelForPoints(l.state.CurrentPoints)
}
