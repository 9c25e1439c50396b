package models

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority normalizes free-form priority input; anything unrecognized
// falls back to medium.
func ParsePriority(s string) Priority {
	p := Priority(strings.TrimSpace(strings.ToLower(s)))
	if p.IsValid() {
		return p
	}
	return PriorityMedium
}

// Task is owned exclusively by the TaskStore and serialized as part of the
// profile snapshot. Invariant: CompletedAt is set iff IsCompleted is true.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskDraft is what the voice/NLP pipeline produces. The service treats the
// pipeline as a black box and the draft as just another AddTask caller.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Confidence  float64    `json:"confidence"`
}
