package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"task-reward-system/models"
	"task-reward-system/utils"
)

// SessionManager owns the per-user TaskStore sessions. A session is loaded
// from the blob store on first access and kept in memory afterwards; the
// in-memory state is authoritative: one device, one session per user.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*TaskStore
	store    utils.BlobStore
	saver    SaveScheduler
	activity ActivityRecorder
	now      func() time.Time
}

func NewSessionManager(store utils.BlobStore, saver SaveScheduler, activity ActivityRecorder) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*TaskStore),
		store:    store,
		saver:    saver,
		activity: activity,
		now:      time.Now,
	}
}

// Session returns the user's TaskStore, restoring it from the blob store on
// first access. Retrieval or decode failures are logged and the user starts
// from a fresh profile — reads are never retried.
//
// The map lock is released during retrieval so one slow profile load cannot
// stall every other user's request. Concurrent first accesses for the same
// user may both read the blob; the re-check under lock makes exactly one
// TaskStore win, so there is never more than one writer for a profile.
func (m *SessionManager) Session(ctx context.Context, userID string) *TaskStore {
	m.mu.Lock()
	if s, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return s
	}
	m.mu.Unlock()

	var snap models.ProfileSnapshot
	blob, version, err := m.store.Retrieve(ctx, profileKey(userID))
	switch {
	case err != nil:
		log.Printf("❌ Failed to load profile %s, starting fresh: %v", userID, err)
	case blob != nil:
		if err := json.Unmarshal(blob, &snap); err != nil {
			log.Printf("❌ Corrupt profile blob for %s, starting fresh: %v", userID, err)
			snap = models.ProfileSnapshot{}
		} else {
			snap.Version = version
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s
	}
	s := NewTaskStore(userID, snap, m.saver, m.activity, m.now)
	m.sessions[userID] = s
	return s
}

// Active returns a snapshot of the currently loaded sessions.
func (m *SessionManager) Active() []*TaskStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*TaskStore, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func profileKey(userID string) string {
	return "profiles/" + userID
}
