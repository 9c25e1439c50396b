package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"task-reward-system/models"

	"github.com/google/uuid"
)

// SaveScheduler receives serialized profile snapshots after every mutation.
// Scheduling must never block the mutation path.
type SaveScheduler interface {
	Schedule(key string, version int64, blob []byte)
}

// ActivityRecorder records audit events for the history endpoint.
// Implementations are fire-and-forget; nil is a valid recorder.
type ActivityRecorder interface {
	Record(userID, eventType, detail string, points int)
}

// TaskStore owns one user's task collection and is the single writer for the
// whole state graph (tasks, streak, points, achievements). All public
// operations are serialized by one mutex; persistence is scheduled after
// every mutation, in mutation order, via a monotonic version stamp.
type TaskStore struct {
	mu       sync.Mutex
	userID   string
	tasks    []models.Task
	streak   *StreakTracker
	ledger   *PointsLedger
	engine   *AchievementEngine
	saver    SaveScheduler
	activity ActivityRecorder
	version  int64
	now      func() time.Time
}

// NewTaskStore restores a store from a profile snapshot. A zero-value
// snapshot yields a fresh profile.
func NewTaskStore(userID string, snap models.ProfileSnapshot, saver SaveScheduler, activity ActivityRecorder, now func() time.Time) *TaskStore {
	if now == nil {
		now = time.Now
	}
	ledger := NewPointsLedger(snap.Points)
	return &TaskStore{
		userID:   userID,
		tasks:    snap.Tasks,
		streak:   NewStreakTracker(snap.Streak),
		ledger:   ledger,
		engine:   NewAchievementEngine(models.AchievementCatalog, snap.Achievements, ledger, now),
		saver:    saver,
		activity: activity,
		version:  snap.Version,
		now:      now,
	}
}

func (s *TaskStore) UserID() string { return s.userID }

// AddTask appends a task. Title validation is the caller's concern; the
// store accepts what it is given. Completion state is always reset: tasks
// enter the store incomplete.
func (s *TaskStore) AddTask(t models.Task) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	if !t.Priority.IsValid() {
		t.Priority = models.PriorityMedium
	}
	t.IsCompleted = false
	t.CompletedAt = nil

	s.tasks = append(s.tasks, t)
	s.persistLocked()
	return t
}

// AddDraft adds a task produced by the voice/NLP pipeline.
func (s *TaskStore) AddDraft(d models.TaskDraft) models.Task {
	return s.AddTask(models.Task{
		Title:       d.Title,
		Description: d.Description,
		Priority:    models.ParsePriority(d.Priority),
		DueAt:       d.DueDate,
	})
}

// DeleteTask removes a task. The deleted completion may have been
// load-bearing for the streak, so the streak is fully recomputed. Unknown
// ids are a silent no-op.
func (s *TaskStore) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return false
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.streak.Recompute(s.completionTimesLocked())
	s.persistLocked()
	return true
}

// ToggleResult reports what a completion toggle changed.
type ToggleResult struct {
	Task                 models.Task `json:"task"`
	Completed            bool        `json:"completed"`
	PointsDelta          int         `json:"points_delta"`
	CurrentStreak        int         `json:"current_streak"`
	MilestoneDays        int         `json:"milestone_days,omitempty"`
	LevelBefore          int         `json:"level_before"`
	LevelAfter           int         `json:"level_after"`
	LevelUp              bool        `json:"level_up"`
	UnlockedAchievements []string    `json:"unlocked_achievements,omitempty"`
}

// ToggleCompletion flips a task's completion state.
//
// false→true: stamp CompletedAt, award base points, incremental streak
// update (with exact-match milestone bonus), evaluate achievements.
// true→false: clear CompletedAt, deduct base points (floored at zero), full
// streak recompute, re-evaluate achievements (unlocks never revert).
//
// Unknown ids return (nil, false) and change nothing.
func (s *TaskStore) ToggleCompletion(id string) (*ToggleResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, false
	}
	task := &s.tasks[idx]

	before := s.ledger.State()
	res := &ToggleResult{LevelBefore: before.Level}

	if !task.IsCompleted {
		ts := s.now()
		task.IsCompleted = true
		task.CompletedAt = &ts
		res.Completed = true

		s.ledger.Award(models.BaseCompletionPoints, "task:"+task.ID)
		upd := s.streak.RecordCompletion(ts)
		if upd.MilestoneDays > 0 {
			if code := s.engine.UnlockStreakMilestone(upd.MilestoneDays); code != "" {
				res.MilestoneDays = upd.MilestoneDays
				res.UnlockedAchievements = append(res.UnlockedAchievements, code)
			}
		}
		res.UnlockedAchievements = append(res.UnlockedAchievements, s.engine.Evaluate(s.statsLocked())...)

		s.recordActivity(models.ActivityTaskCompleted, task.Title, models.BaseCompletionPoints)
	} else {
		task.IsCompleted = false
		task.CompletedAt = nil

		s.ledger.Deduct(models.BaseCompletionPoints)
		s.streak.Recompute(s.completionTimesLocked())
		res.UnlockedAchievements = append(res.UnlockedAchievements, s.engine.Evaluate(s.statsLocked())...)

		s.recordActivity(models.ActivityTaskUncompleted, task.Title, -models.BaseCompletionPoints)
	}

	after := s.ledger.State()
	res.Task = *task
	res.PointsDelta = after.CurrentPoints - before.CurrentPoints
	res.CurrentStreak = s.streak.State().CurrentStreak
	res.LevelAfter = after.Level
	res.LevelUp = after.Level > before.Level
	if res.LevelUp {
		s.recordActivity(models.ActivityLevelUp, fmt.Sprintf("level %d", after.Level), 0)
	}
	for _, code := range res.UnlockedAchievements {
		s.recordActivity(models.ActivityAchievementUnlocked, code, 0)
	}

	s.persistLocked()
	return res, true
}

// Tasks returns a copy of the task list.
func (s *TaskStore) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// DueSoon returns incomplete tasks due within the window after now.
func (s *TaskStore) DueSoon(now time.Time, window time.Duration) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []models.Task
	cutoff := now.Add(window)
	for _, t := range s.tasks {
		if t.IsCompleted || t.DueAt == nil {
			continue
		}
		if t.DueAt.After(now) && !t.DueAt.After(cutoff) {
			due = append(due, t)
		}
	}
	return due
}

// ProgressSummary is the read model for the progress endpoint.
type ProgressSummary struct {
	CurrentPoints      int        `json:"current_points"`
	TotalPointsEarned  int        `json:"total_points_earned"`
	Level              int        `json:"level"`
	CurrentStreak      int        `json:"current_streak"`
	LongestStreak      int        `json:"longest_streak"`
	LastCompletionDate *time.Time `json:"last_completion_date,omitempty"`
	CompletedTasks     int        `json:"completed_tasks"`
	TotalTasks         int        `json:"total_tasks"`
}

func (s *TaskStore) Progress() ProgressSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	points := s.ledger.State()
	streak := s.streak.State()
	return ProgressSummary{
		CurrentPoints:      points.CurrentPoints,
		TotalPointsEarned:  points.TotalPointsEarned,
		Level:              points.Level,
		CurrentStreak:      streak.CurrentStreak,
		LongestStreak:      streak.LongestStreak,
		LastCompletionDate: streak.LastCompletionDate,
		CompletedTasks:     s.completedCountLocked(),
		TotalTasks:         len(s.tasks),
	}
}

// Achievements returns the catalog merged with unlock state.
func (s *TaskStore) Achievements() []models.AchievementView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Views()
}

// Snapshot builds the persistable aggregate at the current version.
func (s *TaskStore) Snapshot() models.ProfileSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *TaskStore) snapshotLocked() models.ProfileSnapshot {
	tasks := make([]models.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return models.ProfileSnapshot{
		Version:      s.version,
		Tasks:        tasks,
		Points:       s.ledger.State(),
		Streak:       s.streak.State(),
		Achievements: s.engine.States(),
		SavedAt:      s.now(),
	}
}

func (s *TaskStore) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) completedCountLocked() int {
	n := 0
	for _, t := range s.tasks {
		if t.IsCompleted {
			n++
		}
	}
	return n
}

func (s *TaskStore) completionTimesLocked() []time.Time {
	var times []time.Time
	for _, t := range s.tasks {
		if t.IsCompleted && t.CompletedAt != nil {
			times = append(times, *t.CompletedAt)
		}
	}
	return times
}

func (s *TaskStore) statsLocked() ProgressStats {
	points := s.ledger.State()
	return ProgressStats{
		CompletedTasks:    s.completedCountLocked(),
		CurrentStreak:     s.streak.State().CurrentStreak,
		Level:             points.Level,
		TotalPointsEarned: points.TotalPointsEarned,
	}
}

// persistLocked serializes the aggregate and hands it to the save scheduler.
// Marshal failure is logged; in-memory state stays authoritative and the
// write is not retried.
func (s *TaskStore) persistLocked() {
	s.version++
	snap := s.snapshotLocked()
	blob, err := json.Marshal(snap)
	if err != nil {
		log.Printf("❌ Failed to serialize profile %s: %v", s.userID, err)
		return
	}
	if s.saver != nil {
		s.saver.Schedule(profileKey(s.userID), snap.Version, blob)
	}
}

func (s *TaskStore) recordActivity(eventType, detail string, points int) {
	if s.activity != nil {
		s.activity.Record(s.userID, eventType, detail, points)
	}
}
