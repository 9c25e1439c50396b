package models

import "time"

// Activity event types recorded alongside profile mutations.
const (
	ActivityTaskCompleted       = "task_completed"
	ActivityTaskUncompleted     = "task_uncompleted"
	ActivityAchievementUnlocked = "achievement_unlocked"
	ActivityLevelUp             = "level_up"
)

// ActivityEvent is an append-only audit row behind the history endpoint.
// Rows are written fire-and-forget; the profile snapshot stays authoritative.
type ActivityEvent struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	Type           string    `gorm:"not null" json:"type"`
	Detail         string    `json:"detail"`
	Points         int       `gorm:"default:0" json:"points"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
