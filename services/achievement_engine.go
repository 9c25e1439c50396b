package services

import (
	"log"
	"time"

	"task-reward-system/models"
)

// ProgressStats is the read-only snapshot achievement predicates run against.
type ProgressStats struct {
	CompletedTasks    int
	CurrentStreak     int
	Level             int
	TotalPointsEarned int
}

// AchievementEngine evaluates the static catalog against current state and
// flips unlock flags exactly once, awarding each entry's one-time bonus.
type AchievementEngine struct {
	catalog []models.AchievementDef
	states  map[string]*models.AchievementState
	ledger  *PointsLedger
	now     func() time.Time
}

// NewAchievementEngine seeds unlock state for every catalog entry; persisted
// state for codes no longer in the catalog is dropped.
func NewAchievementEngine(catalog []models.AchievementDef, persisted []models.AchievementState, ledger *PointsLedger, now func() time.Time) *AchievementEngine {
	byCode := make(map[string]models.AchievementState, len(persisted))
	for _, st := range persisted {
		byCode[st.Code] = st
	}

	states := make(map[string]*models.AchievementState, len(catalog))
	for _, def := range catalog {
		st := models.AchievementState{Code: def.Code}
		if prev, ok := byCode[def.Code]; ok {
			st = prev
		}
		states[def.Code] = &st
	}

	return &AchievementEngine{
		catalog: catalog,
		states:  states,
		ledger:  ledger,
		now:     now,
	}
}

// States returns unlock state in catalog order, for snapshots.
func (e *AchievementEngine) States() []models.AchievementState {
	out := make([]models.AchievementState, 0, len(e.catalog))
	for _, def := range e.catalog {
		out = append(out, *e.states[def.Code])
	}
	return out
}

// Views merges the catalog with unlock state, for API responses.
func (e *AchievementEngine) Views() []models.AchievementView {
	out := make([]models.AchievementView, 0, len(e.catalog))
	for _, def := range e.catalog {
		st := e.states[def.Code]
		out = append(out, models.AchievementView{
			AchievementDef: def,
			Unlocked:       st.Unlocked,
			UnlockedAt:     st.UnlockedAt,
		})
	}
	return out
}

// Evaluate unlocks every still-locked achievement whose predicate is
// satisfied and returns the newly unlocked codes. Idempotent: unlock flags
// never revert and bonuses are awarded once.
func (e *AchievementEngine) Evaluate(stats ProgressStats) []string {
	var unlocked []string
	for _, def := range e.catalog {
		st := e.states[def.Code]
		if st.Unlocked || !satisfied(def, stats) {
			continue
		}
		e.unlock(def, st)
		unlocked = append(unlocked, def.Code)
	}
	return unlocked
}

// UnlockStreakMilestone unlocks the streak achievement matching an
// exact-length milestone transition and returns its code, or "" when it is
// already unlocked or no catalog entry matches.
func (e *AchievementEngine) UnlockStreakMilestone(days int) string {
	for _, def := range e.catalog {
		if def.Type != models.AchievementStreakDays || def.Threshold != days {
			continue
		}
		st := e.states[def.Code]
		if st.Unlocked {
			return ""
		}
		e.unlock(def, st)
		return def.Code
	}
	return ""
}

func satisfied(def models.AchievementDef, stats ProgressStats) bool {
	switch def.Type {
	case models.AchievementFirstTask:
		return stats.CompletedTasks >= 1
	case models.AchievementTaskCount:
		return stats.CompletedTasks >= def.Threshold
	case models.AchievementLevel:
		return stats.Level >= def.Threshold
	case models.AchievementTotalPoints:
		return stats.TotalPointsEarned >= def.Threshold
	case models.AchievementStreakDays:
		// Streak achievements unlock through the exact-match milestone path
		// only; a streak rebuilt by recompute must not earn them
		// retroactively.
		return false
	default:
		// Unrecognized catalog entries never unlock and never fail.
		return false
	}
}

func (e *AchievementEngine) unlock(def models.AchievementDef, st *models.AchievementState) {
	st.Unlocked = true
	ts := e.now()
	st.UnlockedAt = &ts
	if def.BonusPoints > 0 {
		e.ledger.Award(def.BonusPoints, "achievement:"+def.Code)
	}
	log.Printf("🎖️ Achievement unlocked: %s (%s, +%d pts)", def.Title, def.Rarity, def.BonusPoints)
}
