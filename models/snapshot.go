package models

import "time"

// ProfileSnapshot is the serialized per-user aggregate written to the blob
// store after every mutation. Version is a monotonic stamp assigned by the
// TaskStore so the snapshot worker can drop stale writes.
type ProfileSnapshot struct {
	Version      int64              `json:"version"`
	Tasks        []Task             `json:"tasks"`
	Points       PointsState        `json:"points"`
	Streak       StreakState        `json:"streak"`
	Achievements []AchievementState `json:"achievements"`
	SavedAt      time.Time          `json:"saved_at"`
}

// SnapshotRecord is the key/value row backing the default (DB-backed) blob
// store. The blob is opaque to the storage layer.
type SnapshotRecord struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Version   int64     `gorm:"not null;default:0" json:"version"`
	Blob      []byte    `json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
