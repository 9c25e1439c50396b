package services

import (
	"log"

	"task-reward-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLogger writes audit rows behind the history endpoint. Writes are
// fire-and-forget: a failed insert is logged and dropped, never retried.
type ActivityLogger struct {
	DB *gorm.DB
}

func NewActivityLogger(db *gorm.DB) *ActivityLogger {
	return &ActivityLogger{DB: db}
}

func (l *ActivityLogger) Record(userID, eventType, detail string, points int) {
	if l == nil || l.DB == nil {
		return
	}
	ev := models.ActivityEvent{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		Type:           eventType,
		Detail:         detail,
		Points:         points,
	}
	go func() {
		if err := l.DB.Create(&ev).Error; err != nil {
			log.Printf("❌ Failed to record activity event for %s: %v", userID, err)
		}
	}()
}

// History returns paginated activity events, newest first.
func (l *ActivityLogger) History(userID string, page, size int) (map[string]interface{}, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	var total int64
	if err := l.DB.Model(&models.ActivityEvent{}).
		Where("external_user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var events []models.ActivityEvent
	if err := l.DB.Where("external_user_id = ?", userID).
		Order("created_at DESC").
		Limit(size).Offset(offset).
		Find(&events).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return map[string]interface{}{
		"events":      events,
		"page":        page,
		"size":        size,
		"total_items": total,
		"total_pages": totalPages,
	}, nil
}
