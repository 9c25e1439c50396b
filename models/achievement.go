package models

import "time"

type AchievementType string

const (
	AchievementFirstTask   AchievementType = "first_task_completed"
	AchievementTaskCount   AchievementType = "task_count"
	AchievementStreakDays  AchievementType = "streak_days"
	AchievementLevel       AchievementType = "level"
	AchievementTotalPoints AchievementType = "total_points"
)

const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// AchievementDef is a static catalog entry. Rarity is cosmetic only.
// Threshold is interpreted per Type; BonusPoints is awarded exactly once, at
// unlock.
type AchievementDef struct {
	Code        string          `json:"code"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Rarity      string          `json:"rarity"`
	Type        AchievementType `json:"type"`
	Threshold   int             `json:"threshold"`
	BonusPoints int             `json:"bonus_points"`
}

// AchievementState is the per-user unlock state persisted in the profile
// snapshot. Once Unlocked is true it never reverts; UnlockedAt is stamped
// exactly once.
type AchievementState struct {
	Code       string     `json:"code"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// AchievementView merges a catalog entry with its unlock state for API
// responses.
type AchievementView struct {
	AchievementDef
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// AchievementCatalog is the canonical catalog, loaded once at startup.
// No entry's predicate depends on another entry's unlock state, so evaluation
// order cannot change the outcome.
//
// The streak_days bonuses double as the streak milestone bonus table
// ({3: 50, 7: 150, 14: 400, 30: 1000}); those entries are unlocked through
// the exact-match milestone path only.
var AchievementCatalog = []AchievementDef{
	{
		Code:        "FIRST_TASK",
		Title:       "Getting Things Done",
		Description: "Complete your first task",
		Icon:        "checkmark.seal",
		Rarity:      RarityCommon,
		Type:        AchievementFirstTask,
		Threshold:   1,
	},
	{
		Code:        "TASKS_10",
		Title:       "Productive",
		Description: "Complete 10 tasks",
		Icon:        "list.bullet",
		Rarity:      RarityCommon,
		Type:        AchievementTaskCount,
		Threshold:   10,
		BonusPoints: 50,
	},
	{
		Code:        "TASKS_50",
		Title:       "Achiever",
		Description: "Complete 50 tasks",
		Icon:        "rosette",
		Rarity:      RarityRare,
		Type:        AchievementTaskCount,
		Threshold:   50,
		BonusPoints: 150,
	},
	{
		Code:        "TASKS_100",
		Title:       "Powerhouse",
		Description: "Complete 100 tasks",
		Icon:        "trophy",
		Rarity:      RarityEpic,
		Type:        AchievementTaskCount,
		Threshold:   100,
		BonusPoints: 400,
	},
	{
		Code:        "STREAK_3",
		Title:       "3-Day Streak",
		Description: "Complete tasks three days in a row",
		Icon:        "flame",
		Rarity:      RarityCommon,
		Type:        AchievementStreakDays,
		Threshold:   3,
		BonusPoints: 50,
	},
	{
		Code:        "STREAK_7",
		Title:       "Week Warrior",
		Description: "Complete tasks seven days in a row",
		Icon:        "flame.fill",
		Rarity:      RarityRare,
		Type:        AchievementStreakDays,
		Threshold:   7,
		BonusPoints: 150,
	},
	{
		Code:        "STREAK_14",
		Title:       "Fortnight Focus",
		Description: "Complete tasks fourteen days in a row",
		Icon:        "calendar",
		Rarity:      RarityEpic,
		Type:        AchievementStreakDays,
		Threshold:   14,
		BonusPoints: 400,
	},
	{
		Code:        "STREAK_30",
		Title:       "Monthly Master",
		Description: "Complete tasks thirty days in a row",
		Icon:        "crown",
		Rarity:      RarityLegendary,
		Type:        AchievementStreakDays,
		Threshold:   30,
		BonusPoints: 1000,
	},
	{
		Code:        "LEVEL_5",
		Title:       "Rising Star",
		Description: "Reach level 5",
		Icon:        "star",
		Rarity:      RarityRare,
		Type:        AchievementLevel,
		Threshold:   5,
		BonusPoints: 100,
	},
	{
		Code:        "LEVEL_10",
		Title:       "Task Veteran",
		Description: "Reach level 10",
		Icon:        "star.fill",
		Rarity:      RarityEpic,
		Type:        AchievementLevel,
		Threshold:   10,
		BonusPoints: 250,
	},
	{
		Code:        "POINTS_500",
		Title:       "Point Collector",
		Description: "Earn 500 lifetime points",
		Icon:        "sparkles",
		Rarity:      RarityRare,
		Type:        AchievementTotalPoints,
		Threshold:   500,
		BonusPoints: 50,
	},
	{
		Code:        "POINTS_2500",
		Title:       "Point Hoarder",
		Description: "Earn 2500 lifetime points",
		Icon:        "diamond",
		Rarity:      RarityLegendary,
		Type:        AchievementTotalPoints,
		Threshold:   2500,
		BonusPoints: 250,
	},
}
