package models

// WorkerSpec is a roster entry describing one agent. The roster is supplied
// at startup and read-only afterwards.
type WorkerSpec struct {
	ID                 string   `json:"id" mapstructure:"id"`
	Capabilities       []string `json:"capabilities" mapstructure:"capabilities"`
	MaxConcurrentTasks int      `json:"max_concurrent_tasks" mapstructure:"max_concurrent_tasks"`
}

// WorkerWorkload is the mutable scheduling state for one worker.
type WorkerWorkload struct {
	WorkerID           string   `json:"worker_id"`
	Capabilities       []string `json:"capabilities"`
	PreferredTaskTypes []string `json:"preferred_task_types"`
	CurrentTasks       []string `json:"current_tasks"`
	MaxConcurrentTasks int      `json:"max_concurrent_tasks"`
	CurrentLoad        float64  `json:"current_load"`
}

// NewWorkerWorkload builds the initial idle workload for a roster entry.
// Preferred task types mirror the capability tags.
func NewWorkerWorkload(spec WorkerSpec) *WorkerWorkload {
	caps := make([]string, len(spec.Capabilities))
	copy(caps, spec.Capabilities)

	preferred := make([]string, len(spec.Capabilities))
	copy(preferred, spec.Capabilities)

	return &WorkerWorkload{
		WorkerID:           spec.ID,
		Capabilities:       caps,
		PreferredTaskTypes: preferred,
		CurrentTasks:       make([]string, 0),
		MaxConcurrentTasks: spec.MaxConcurrentTasks,
	}
}

// Prefers reports whether the worker advertises the given task type.
func (w *WorkerWorkload) Prefers(taskType string) bool {
	for _, t := range w.PreferredTaskTypes {
		if t == taskType {
			return true
		}
	}
	return false
}

// HasCapacity reports whether the worker can take one more task.
func (w *WorkerWorkload) HasCapacity() bool {
	return len(w.CurrentTasks) < w.MaxConcurrentTasks
}

// RecomputeLoad refreshes CurrentLoad from the task list. Called after every
// assignment and completion.
func (w *WorkerWorkload) RecomputeLoad() {
	if w.MaxConcurrentTasks <= 0 {
		w.CurrentLoad = 0
		return
	}
	w.CurrentLoad = float64(len(w.CurrentTasks)) / float64(w.MaxConcurrentTasks)
}

// RemoveTask drops a task id from CurrentTasks, preserving order.
func (w *WorkerWorkload) RemoveTask(taskID string) {
	for i, id := range w.CurrentTasks {
		if id == taskID {
			w.CurrentTasks = append(w.CurrentTasks[:i], w.CurrentTasks[i+1:]...)
			return
		}
	}
}

// Clone returns a snapshot copy safe for handing to callers.
func (w *WorkerWorkload) Clone() WorkerWorkload {
	cp := *w
	cp.Capabilities = append([]string(nil), w.Capabilities...)
	cp.PreferredTaskTypes = append([]string(nil), w.PreferredTaskTypes...)
	cp.CurrentTasks = append([]string(nil), w.CurrentTasks...)
	return cp
}
