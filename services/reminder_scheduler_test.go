package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"task-reward-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (n *recordingNotifier) Notify(userID string, task models.Task) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("notification service down")
	}
	n.calls = append(n.calls, task.ID)
	return nil
}

func (n *recordingNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func newSweeperFixture(t *testing.T) (*reminderSweeper, *recordingNotifier, *TaskStore) {
	t.Helper()
	m := NewSessionManager(newStubBlobStore(), &fakeSaver{}, nil)
	store := m.Session(context.Background(), "u1")
	notifier := &recordingNotifier{}
	return newReminderSweeper(m, notifier, 30*time.Minute), notifier, store
}

func TestSweepNotifiesEachDueTaskOnce(t *testing.T) {
	sweeper, notifier, store := newSweeperFixture(t)

	now := time.Now()
	due := now.Add(10 * time.Minute)
	task := store.AddTask(models.Task{Title: "due soon", DueAt: &due})
	far := now.Add(2 * time.Hour)
	store.AddTask(models.Task{Title: "not yet", DueAt: &far})

	sweeper.sweep(now)
	sweeper.sweep(now.Add(time.Minute))

	require.Equal(t, 1, notifier.callCount())
	assert.Equal(t, []string{task.ID}, notifier.calls)
}

func TestSweepRetriesAfterNotifyFailure(t *testing.T) {
	sweeper, notifier, store := newSweeperFixture(t)

	now := time.Now()
	due := now.Add(10 * time.Minute)
	store.AddTask(models.Task{Title: "due soon", DueAt: &due})

	notifier.fail = true
	sweeper.sweep(now)
	require.Equal(t, 0, notifier.callCount())

	// A failed delivery is not recorded as sent, so the next sweep retries.
	notifier.fail = false
	sweeper.sweep(now.Add(time.Minute))
	assert.Equal(t, 1, notifier.callCount())
}

func TestSweepEvictsPastDueEntries(t *testing.T) {
	sweeper, notifier, store := newSweeperFixture(t)

	now := time.Now()
	due := now.Add(10 * time.Minute)
	store.AddTask(models.Task{Title: "due soon", DueAt: &due})

	sweeper.sweep(now)
	require.Equal(t, 1, notifier.callCount())
	sweeper.mu.Lock()
	require.Len(t, sweeper.notified, 1)
	sweeper.mu.Unlock()

	// Once the due timestamp has passed the entry can never suppress
	// another reminder and is dropped.
	sweeper.sweep(due.Add(time.Minute))
	sweeper.mu.Lock()
	assert.Empty(t, sweeper.notified)
	sweeper.mu.Unlock()
}

func TestOverlappingSweepsAreSerialized(t *testing.T) {
	sweeper, notifier, store := newSweeperFixture(t)

	now := time.Now()
	due := now.Add(10 * time.Minute)
	store.AddTask(models.Task{Title: "due soon", DueAt: &due})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sweeper.sweep(now)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, notifier.callCount())
}
