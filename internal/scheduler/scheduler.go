package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agentdesk/agent-scheduler/internal/executor"
	"github.com/agentdesk/agent-scheduler/internal/metrics"
	"github.com/agentdesk/agent-scheduler/internal/models"
	"github.com/agentdesk/agent-scheduler/internal/queue"
)

const defaultMaxGlobalConcurrency = 10

// Options are the constructor-time knobs. There is no runtime
// reconfiguration.
type Options struct {
	MaxGlobalConcurrency       int
	EnableLoadBalancing        bool
	EnableTaskPrioritization   bool
	EnableDependencyResolution bool
}

// SystemStatus is a point-in-time snapshot of the whole scheduler.
type SystemStatus struct {
	TotalTasks           int                     `json:"total_tasks"`
	RunningTasks         int                     `json:"running_tasks"`
	QueuedTasks          int                     `json:"queued_tasks"`
	MaxGlobalConcurrency int                     `json:"max_global_concurrency"`
	WorkerCount          int                     `json:"worker_count"`
	Uptime               time.Duration           `json:"uptime"`
	Workloads            []models.WorkerWorkload `json:"workloads"`
}

// Scheduler owns the task store, the pending queue and the per-worker
// workloads. A single mutex serializes every transition, so the dispatch
// logic is the sole writer; task execution itself runs on goroutines, one
// per in-flight task, and feeds completions back through the same lock.
type Scheduler struct {
	opts     Options
	registry *executor.Registry
	log      *zap.Logger
	metrics  *metrics.Metrics
	terminal func(models.Task)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mutex       sync.Mutex
	tasks       map[string]*models.Task
	pending     *queue.PendingQueue
	workloads   map[string]*models.WorkerWorkload
	rosterOrder []string
	running     int
	startedAt   time.Time
}

// Option customizes a Scheduler at construction.
type Option func(*Scheduler)

// WithLogger replaces the default nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// WithMetrics wires prometheus collectors into the transition logic.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithTerminalHook registers a callback invoked with a snapshot of every
// task that reaches a terminal state. The hook runs on its own goroutine and
// must not call back into the scheduler's mutating API.
func WithTerminalHook(fn func(models.Task)) Option {
	return func(s *Scheduler) { s.terminal = fn }
}

// New builds a scheduler over a fixed worker roster. The roster is read
// once; workload entries live for the lifetime of the scheduler.
func New(roster []models.WorkerSpec, registry *executor.Registry, opts Options, optFns ...Option) *Scheduler {
	if opts.MaxGlobalConcurrency <= 0 {
		opts.MaxGlobalConcurrency = defaultMaxGlobalConcurrency
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		opts:      opts,
		registry:  registry,
		log:       zap.NewNop(),
		ctx:       ctx,
		cancel:    cancel,
		tasks:     make(map[string]*models.Task),
		pending:   queue.NewPendingQueue(opts.EnableTaskPrioritization),
		workloads: make(map[string]*models.WorkerWorkload),
		startedAt: time.Now(),
	}

	for _, spec := range roster {
		if _, exists := s.workloads[spec.ID]; exists {
			continue
		}
		s.workloads[spec.ID] = models.NewWorkerWorkload(spec)
		s.rosterOrder = append(s.rosterOrder, spec.ID)
	}

	for _, fn := range optFns {
		fn(s)
	}

	return s
}

// Submit validates a draft, stores it as a pending task and attempts an
// immediate assignment. The id is returned synchronously; assignment is
// asynchronous. Dependency ids are not checked for existence, and no cycle
// detection is performed: a cyclic dependency set stalls forever.
func (s *Scheduler) Submit(draft models.TaskDraft) (string, error) {
	if err := draft.Validate(); err != nil {
		return "", err
	}

	task := models.NewTask(draft)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tasks[task.ID] = task
	s.pending.Enqueue(task)

	if s.metrics != nil {
		s.metrics.TasksSubmitted.Inc()
	}

	s.log.Info("task submitted",
		zap.String("task_id", task.ID),
		zap.String("type", task.Type),
		zap.String("priority", string(task.Priority)),
		zap.Int("dependencies", len(task.Dependencies)))

	s.dispatchLocked()

	return task.ID, nil
}

// Cancel removes a task that has not started yet. It returns false, without
// mutating anything, when the task is unknown, already running or terminal.
func (s *Scheduler) Cancel(taskID string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists || task.Status != models.TaskStatusPending {
		return false
	}

	s.pending.Remove(taskID)
	delete(s.tasks, taskID)
	s.syncGaugesLocked()

	s.log.Info("task cancelled", zap.String("task_id", taskID))
	return true
}

// GetTask returns a snapshot of a task by id.
func (s *Scheduler) GetTask(taskID string) (*models.Task, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, false
	}
	return task.Clone(), true
}

// ListTasks returns a snapshot of every task in the store.
func (s *Scheduler) ListTasks() []*models.Task {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	tasks := make([]*models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task.Clone())
	}
	return tasks
}

// ListWorkerWorkloads returns a snapshot of every workload in roster order.
func (s *Scheduler) ListWorkerWorkloads() []models.WorkerWorkload {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.workloadSnapshotLocked()
}

// Status returns a snapshot of the whole system.
func (s *Scheduler) Status() SystemStatus {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return SystemStatus{
		TotalTasks:           len(s.tasks),
		RunningTasks:         s.running,
		QueuedTasks:          s.pending.Size(),
		MaxGlobalConcurrency: s.opts.MaxGlobalConcurrency,
		WorkerCount:          len(s.rosterOrder),
		Uptime:               time.Since(s.startedAt),
		Workloads:            s.workloadSnapshotLocked(),
	}
}

// Close stops accepting execution work and waits for in-flight tasks and
// terminal hooks to drain.
func (s *Scheduler) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) workloadSnapshotLocked() []models.WorkerWorkload {
	workloads := make([]models.WorkerWorkload, 0, len(s.rosterOrder))
	for _, id := range s.rosterOrder {
		workloads = append(workloads, s.workloads[id].Clone())
	}
	return workloads
}

// dispatchLocked drains the queue while a global slot is free and some
// queued task is both eligible and assignable. Ineligible tasks stay queued
// and are re-checked on the next pass.
func (s *Scheduler) dispatchLocked() {
	for s.running < s.opts.MaxGlobalConcurrency {
		task, workerID := s.nextAssignableLocked()
		if task == nil {
			break
		}
		s.assignLocked(task, workerID)
	}
	s.syncGaugesLocked()
}

func (s *Scheduler) nextAssignableLocked() (*models.Task, string) {
	for _, task := range s.pending.Tasks() {
		if !s.eligibleLocked(task) {
			continue
		}
		if workerID := s.selectWorkerLocked(task); workerID != "" {
			return task, workerID
		}
	}
	return nil, ""
}

// eligibleLocked gates a task on its dependencies: every declared id must
// map to a completed task. A missing, failed or still-unfinished dependency
// keeps the task pending.
func (s *Scheduler) eligibleLocked(task *models.Task) bool {
	if !s.opts.EnableDependencyResolution {
		return true
	}
	for _, depID := range task.Dependencies {
		dep, exists := s.tasks[depID]
		if !exists || dep.Status != models.TaskStatusCompleted {
			return false
		}
	}
	return true
}

func (s *Scheduler) assignLocked(task *models.Task, workerID string) {
	now := time.Now()
	task.Status = models.TaskStatusRunning
	task.WorkerID = workerID
	task.StartedAt = &now

	workload := s.workloads[workerID]
	workload.CurrentTasks = append(workload.CurrentTasks, task.ID)
	workload.RecomputeLoad()

	s.pending.Remove(task.ID)
	s.running++

	s.log.Info("task assigned",
		zap.String("task_id", task.ID),
		zap.String("type", task.Type),
		zap.String("worker_id", workerID),
		zap.Float64("worker_load", workload.CurrentLoad))

	if workload.CurrentLoad >= 0.8 {
		s.log.Warn("worker approaching capacity",
			zap.String("worker_id", workerID),
			zap.Int("current_tasks", len(workload.CurrentTasks)),
			zap.Int("max_concurrent_tasks", workload.MaxConcurrentTasks))
	}

	s.wg.Add(1)
	go s.execute(task)
}

// execute runs the task on its own goroutine and reports the outcome back
// into the serialized transition logic.
func (s *Scheduler) execute(task *models.Task) {
	defer s.wg.Done()

	exec, err := s.registry.Get(task.Type)

	var result interface{}
	if err == nil {
		result, err = exec.Execute(s.ctx, task)
	}

	s.complete(task.ID, result, err)
}

func (s *Scheduler) complete(taskID string, result interface{}, execErr error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists || task.Status != models.TaskStatusRunning {
		return
	}

	now := time.Now()
	task.CompletedAt = &now

	if execErr != nil {
		task.Status = models.TaskStatusFailed
		task.Error = execErr.Error()
		s.log.Warn("task failed",
			zap.String("task_id", task.ID),
			zap.String("worker_id", task.WorkerID),
			zap.String("error", task.Error))
	} else {
		task.Status = models.TaskStatusCompleted
		task.Result = result
		s.log.Info("task completed",
			zap.String("task_id", task.ID),
			zap.String("worker_id", task.WorkerID),
			zap.Duration("elapsed", now.Sub(*task.StartedAt)))
	}

	if workload, ok := s.workloads[task.WorkerID]; ok {
		workload.RemoveTask(task.ID)
		workload.RecomputeLoad()
	}
	s.running--

	if s.metrics != nil {
		s.metrics.TasksFinished.WithLabelValues(string(task.Status)).Inc()
	}

	if s.terminal != nil {
		snapshot := *task.Clone()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.terminal(snapshot)
		}()
	}

	// A slot just freed up and a dependent may have become eligible.
	s.dispatchLocked()
}

func (s *Scheduler) syncGaugesLocked() {
	if s.metrics == nil {
		return
	}
	s.metrics.RunningTasks.Set(float64(s.running))
	s.metrics.QueuedTasks.Set(float64(s.pending.Size()))
	for _, id := range s.rosterOrder {
		s.metrics.WorkerLoad.WithLabelValues(id).Set(s.workloads[id].CurrentLoad)
	}
}
