package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentdesk/agent-scheduler/internal/models"
)

// TaskExecutor is the execution boundary: it performs the actual work for a
// task and returns a result or an error. Implementations may be slow; the
// scheduler runs them on their own goroutine and treats them as opaque.
type TaskExecutor interface {
	Execute(ctx context.Context, task *models.Task) (interface{}, error)
}

// ExecutorFunc adapts a plain function to the TaskExecutor interface.
type ExecutorFunc func(ctx context.Context, task *models.Task) (interface{}, error)

func (f ExecutorFunc) Execute(ctx context.Context, task *models.Task) (interface{}, error) {
	return f(ctx, task)
}

// Registry maps task type tags to executors. New task types are added by
// registration; there is no central switch.
type Registry struct {
	executors map[string]TaskExecutor
	mutex     sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[string]TaskExecutor),
	}
}

func (r *Registry) Register(taskType string, exec TaskExecutor) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.executors[taskType] = exec
}

func (r *Registry) RegisterFunc(taskType string, fn ExecutorFunc) {
	r.Register(taskType, fn)
}

func (r *Registry) Get(taskType string) (TaskExecutor, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	exec, exists := r.executors[taskType]
	if !exists {
		return nil, fmt.Errorf("no executor registered for task type: %s", taskType)
	}
	return exec, nil
}

// Types returns the registered task type tags.
func (r *Registry) Types() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	types := make([]string, 0, len(r.executors))
	for t := range r.executors {
		types = append(types, t)
	}
	return types
}
