// task-reward-system/services/calendar_client.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"task-reward-system/models"

	"github.com/gosimple/slug"
)

// CalendarSyncClient pushes tasks with due dates to the external calendar
// service. Sync is best effort and fired outside the mutation path: the task
// core is never informed of the outcome.
type CalendarSyncClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewCalendarSyncClient(baseURL, token string) *CalendarSyncClient {
	return &CalendarSyncClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SyncTask creates a calendar event for the task's due date. Tasks without a
// due date are skipped.
func (c *CalendarSyncClient) SyncTask(userID string, task models.Task) error {
	if task.DueAt == nil {
		return nil
	}

	url := fmt.Sprintf("%s/api/v1/events", c.BaseURL)

	reqBody := map[string]interface{}{
		"event_key": eventKey(task),
		"user_id":   userID,
		"title":     task.Title,
		"notes":     task.Description,
		"starts_at": task.DueAt.Format(time.RFC3339),
	}
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("CalendarService /events returned %d: %s", resp.StatusCode, string(body))
		return fmt.Errorf("calendar sync failed: %d", resp.StatusCode)
	}

	return nil
}

// eventKey is a stable, human-readable calendar event identifier.
func eventKey(task models.Task) string {
	id := task.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return slug.Make(task.Title) + "-" + id
}
