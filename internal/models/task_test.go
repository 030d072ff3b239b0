package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftValidation(t *testing.T) {
	tests := []struct {
		name    string
		draft   TaskDraft
		wantErr error
	}{
		{"valid", TaskDraft{Type: "research", Priority: PriorityHigh}, nil},
		{"empty priority is allowed", TaskDraft{Type: "research"}, nil},
		{"missing type", TaskDraft{Priority: PriorityLow}, ErrMissingType},
		{"unknown priority", TaskDraft{Type: "research", Priority: "critical"}, ErrInvalidPriority},
		{"negative duration", TaskDraft{Type: "research", EstimatedDuration: -time.Minute}, ErrNegativeDuration},
		{"blank dependency id", TaskDraft{Type: "research", Dependencies: []string{""}}, ErrEmptyDependencyID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPriorityOrder(t *testing.T) {
	assert.Greater(t, PriorityUrgent.Weight(), PriorityHigh.Weight())
	assert.Greater(t, PriorityHigh.Weight(), PriorityMedium.Weight())
	assert.Greater(t, PriorityMedium.Weight(), PriorityLow.Weight())
}

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask(TaskDraft{Type: "research", Dependencies: []string{"dep-1"}})

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Empty(t, task.WorkerID)
	assert.Nil(t, task.StartedAt)
	assert.False(t, task.CreatedAt.IsZero())

	other := NewTask(TaskDraft{Type: "research"})
	assert.NotEqual(t, task.ID, other.ID)
}

func TestCloneIsIndependent(t *testing.T) {
	now := time.Now()
	task := NewTask(TaskDraft{Type: "research", Dependencies: []string{"dep-1"}})
	task.StartedAt = &now

	clone := task.Clone()
	clone.Status = TaskStatusRunning
	clone.Dependencies[0] = "changed"
	*clone.StartedAt = now.Add(time.Hour)

	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Equal(t, "dep-1", task.Dependencies[0])
	assert.True(t, task.StartedAt.Equal(now))
}

func TestWorkloadLoadAndCapacity(t *testing.T) {
	w := NewWorkerWorkload(WorkerSpec{
		ID:                 "w1",
		Capabilities:       []string{"research"},
		MaxConcurrentTasks: 4,
	})

	require.True(t, w.HasCapacity())
	assert.Zero(t, w.CurrentLoad)
	assert.True(t, w.Prefers("research"))
	assert.False(t, w.Prefers("code_review"))

	w.CurrentTasks = append(w.CurrentTasks, "t1", "t2")
	w.RecomputeLoad()
	assert.InDelta(t, 0.5, w.CurrentLoad, 1e-9)

	w.RemoveTask("t1")
	w.RecomputeLoad()
	assert.Equal(t, []string{"t2"}, w.CurrentTasks)
	assert.InDelta(t, 0.25, w.CurrentLoad, 1e-9)

	// Removing an unknown id is a no-op.
	w.RemoveTask("missing")
	assert.Len(t, w.CurrentTasks, 1)
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, TaskStatusCompleted.Terminal())
	assert.True(t, TaskStatusFailed.Terminal())
	assert.False(t, TaskStatusPending.Terminal())
	assert.False(t, TaskStatusRunning.Terminal())
}
