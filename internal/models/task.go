package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Terminal reports whether a status is an end state.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Weight maps a priority to its ordering weight. Higher runs first.
func (p TaskPriority) Weight() int {
	switch p {
	case PriorityUrgent:
		return 20
	case PriorityHigh:
		return 10
	case PriorityMedium:
		return 5
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

var (
	ErrMissingType       = errors.New("task type is required")
	ErrInvalidPriority   = errors.New("invalid task priority")
	ErrNegativeDuration  = errors.New("estimated duration must be non-negative")
	ErrEmptyDependencyID = errors.New("dependency ids must be non-empty")
)

// Task is a unit of work owned by the scheduler. Status only moves forward
// through pending -> running -> completed|failed; all mutation happens inside
// the scheduler's dispatch logic.
type Task struct {
	ID                string                 `json:"id"`
	WorkerID          string                 `json:"worker_id,omitempty"`
	Type              string                 `json:"type"`
	Description       string                 `json:"description,omitempty"`
	Payload           map[string]interface{} `json:"payload,omitempty"`
	Priority          TaskPriority           `json:"priority"`
	Status            TaskStatus             `json:"status"`
	Dependencies      []string               `json:"dependencies,omitempty"`
	EstimatedDuration time.Duration          `json:"estimated_duration,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	StartedAt         *time.Time             `json:"started_at,omitempty"`
	CompletedAt       *time.Time             `json:"completed_at,omitempty"`
	Result            interface{}            `json:"result,omitempty"`
	Error             string                 `json:"error,omitempty"`
}

// TaskDraft is the caller-supplied half of a Task; the scheduler fills in
// the id, status and timestamps on submission.
type TaskDraft struct {
	Type              string                 `json:"type"`
	Description       string                 `json:"description,omitempty"`
	Payload           map[string]interface{} `json:"payload,omitempty"`
	Priority          TaskPriority           `json:"priority,omitempty"`
	Dependencies      []string               `json:"dependencies,omitempty"`
	EstimatedDuration time.Duration          `json:"estimated_duration,omitempty"`
}

// Validate checks a draft before it enters the store. An empty priority is
// allowed and defaults to medium at task creation.
func (d *TaskDraft) Validate() error {
	if d.Type == "" {
		return ErrMissingType
	}
	if d.Priority != "" && !d.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, d.Priority)
	}
	if d.EstimatedDuration < 0 {
		return ErrNegativeDuration
	}
	for _, dep := range d.Dependencies {
		if dep == "" {
			return ErrEmptyDependencyID
		}
	}
	return nil
}

// NewTask materializes a draft into a pending task with a fresh id.
func NewTask(draft TaskDraft) *Task {
	priority := draft.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	deps := make([]string, len(draft.Dependencies))
	copy(deps, draft.Dependencies)

	return &Task{
		ID:                uuid.New().String(),
		Type:              draft.Type,
		Description:       draft.Description,
		Payload:           draft.Payload,
		Priority:          priority,
		Status:            TaskStatusPending,
		Dependencies:      deps,
		EstimatedDuration: draft.EstimatedDuration,
		CreatedAt:         time.Now(),
	}
}

// Clone returns a copy safe for handing to callers. The dependency slice is
// copied; Payload and Result are shared and must be treated as read-only.
func (t *Task) Clone() *Task {
	cp := *t
	cp.Dependencies = make([]string, len(t.Dependencies))
	copy(cp.Dependencies, t.Dependencies)
	if t.StartedAt != nil {
		started := *t.StartedAt
		cp.StartedAt = &started
	}
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		cp.CompletedAt = &completed
	}
	return &cp
}
