// services/reminder_scheduler.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"task-reward-system/models"

	"github.com/go-co-op/gocron/v2"
)

// Notifier delivers due-task reminders. Delivery is external to the task
// core; failures are logged by the scheduler and never retried.
type Notifier interface {
	Notify(userID string, task models.Task) error
}

// WebhookNotifier posts reminders to the notification service.
type WebhookNotifier struct {
	URL    string
	Token  string
	Client *http.Client
}

func NewWebhookNotifier(url, token string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:   url,
		Token: token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (n *WebhookNotifier) Notify(userID string, task models.Task) error {
	reqBody := map[string]interface{}{
		"user_id": userID,
		"task_id": task.ID,
		"title":   task.Title,
		"due_at":  task.DueAt,
	}
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequest("POST", n.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.Token)

	resp, err := n.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification service returned %d", resp.StatusCode)
	}
	return nil
}

// reminderSweeper holds the sent-reminder bookkeeping between sweeps. The
// mutex matters: a sweep slowed down by notification round trips can overlap
// the next trigger.
type reminderSweeper struct {
	sessions *SessionManager
	notifier Notifier
	window   time.Duration

	mu sync.Mutex
	// notified maps task id to the due timestamp the reminder was sent for.
	// Editing the due date changes the value and re-arms the reminder.
	notified map[string]time.Time
}

func newReminderSweeper(sessions *SessionManager, notifier Notifier, window time.Duration) *reminderSweeper {
	return &reminderSweeper{
		sessions: sessions,
		notifier: notifier,
		window:   window,
		notified: make(map[string]time.Time),
	}
}

// sweep sends one reminder per due task. Entries whose due timestamp has
// passed are evicted afterwards: a task only shows up while its due time is
// still ahead, so a past entry can never suppress anything again.
func (r *reminderSweeper) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, store := range r.sessions.Active() {
		for _, task := range store.DueSoon(now, r.window) {
			if sentFor, ok := r.notified[task.ID]; ok && sentFor.Equal(*task.DueAt) {
				continue
			}
			if err := r.notifier.Notify(store.UserID(), task); err != nil {
				log.Printf("[Reminders] Failed to notify %s for task %s: %v",
					store.UserID(), task.ID, err)
				continue
			}
			r.notified[task.ID] = *task.DueAt
			log.Printf("🔔 Reminder sent: %q due %s (user %s)",
				task.Title, task.DueAt.Format(time.RFC3339), store.UserID())
		}
	}

	for id, due := range r.notified {
		if !due.After(now) {
			delete(r.notified, id)
		}
	}
}

// StartReminderScheduler sweeps loaded sessions every minute for tasks due
// within the window and sends each reminder once per due timestamp.
func StartReminderScheduler(sessions *SessionManager, notifier Notifier, window time.Duration) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create reminder scheduler: %w", err)
	}

	sweeper := newReminderSweeper(sessions, notifier, window)

	// Singleton mode: a sweep stuck on slow notifications must not pile up
	// concurrent runs.
	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			sweeper.sweep(time.Now())
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}

	sched.Start()
	return nil
}
