package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdesk/agent-scheduler/internal/executor"
	"github.com/agentdesk/agent-scheduler/internal/models"
)

func selectorScheduler(roster []models.WorkerSpec, opts Options) *Scheduler {
	return New(roster, executor.NewRegistry(), opts)
}

func occupy(s *Scheduler, workerID string, n int) {
	w := s.workloads[workerID]
	for i := 0; i < n; i++ {
		w.CurrentTasks = append(w.CurrentTasks, "occupied")
	}
	w.RecomputeLoad()
}

func TestSelectorPrefersCapableWorker(t *testing.T) {
	s := selectorScheduler([]models.WorkerSpec{
		{ID: "generalist", Capabilities: []string{}, MaxConcurrentTasks: 2},
		{ID: "specialist", Capabilities: []string{"research"}, MaxConcurrentTasks: 2},
	}, defaultOptions())
	defer s.Close()

	task := &models.Task{ID: "t1", Type: "research"}
	assert.Equal(t, "specialist", s.selectWorkerLocked(task))
}

func TestSelectorIdleIncapableNeverOutranksBusyCapable(t *testing.T) {
	// The capability bonus dominates: a busy specialist with one free slot
	// still wins over a fully idle generalist of equal size.
	s := selectorScheduler([]models.WorkerSpec{
		{ID: "generalist", Capabilities: []string{}, MaxConcurrentTasks: 2},
		{ID: "specialist", Capabilities: []string{"research"}, MaxConcurrentTasks: 2},
	}, defaultOptions())
	defer s.Close()

	occupy(s, "specialist", 1)

	task := &models.Task{ID: "t1", Type: "research"}
	assert.Equal(t, "specialist", s.selectWorkerLocked(task))
}

func TestSelectorBalancesLoadAmongEquals(t *testing.T) {
	s := selectorScheduler([]models.WorkerSpec{
		{ID: "w1", Capabilities: []string{"work"}, MaxConcurrentTasks: 4},
		{ID: "w2", Capabilities: []string{"work"}, MaxConcurrentTasks: 4},
	}, defaultOptions())
	defer s.Close()

	occupy(s, "w1", 2)

	task := &models.Task{ID: "t1", Type: "work"}
	assert.Equal(t, "w2", s.selectWorkerLocked(task), "less loaded equal-capability worker wins")
}

func TestSelectorTieKeepsRosterOrder(t *testing.T) {
	s := selectorScheduler([]models.WorkerSpec{
		{ID: "first", Capabilities: []string{"work"}, MaxConcurrentTasks: 3},
		{ID: "second", Capabilities: []string{"work"}, MaxConcurrentTasks: 3},
	}, defaultOptions())
	defer s.Close()

	task := &models.Task{ID: "t1", Type: "work"}
	assert.Equal(t, "first", s.selectWorkerLocked(task))
}

func TestSelectorSkipsFullWorkers(t *testing.T) {
	s := selectorScheduler([]models.WorkerSpec{
		{ID: "full", Capabilities: []string{"work"}, MaxConcurrentTasks: 1},
		{ID: "free", Capabilities: []string{}, MaxConcurrentTasks: 1},
	}, defaultOptions())
	defer s.Close()

	occupy(s, "full", 1)

	task := &models.Task{ID: "t1", Type: "work"}
	assert.Equal(t, "free", s.selectWorkerLocked(task), "a full preferred worker is not a candidate")
}

func TestSelectorReturnsEmptyWhenSaturated(t *testing.T) {
	s := selectorScheduler([]models.WorkerSpec{
		{ID: "w1", Capabilities: []string{"work"}, MaxConcurrentTasks: 1},
	}, defaultOptions())
	defer s.Close()

	occupy(s, "w1", 1)

	task := &models.Task{ID: "t1", Type: "work"}
	require.Empty(t, s.selectWorkerLocked(task))
}

func TestSelectorLoadBalancingDisabled(t *testing.T) {
	opts := defaultOptions()
	opts.EnableLoadBalancing = false

	// Without the relative-load term, equal free-slot counts tie and the
	// roster order decides even though w1 is proportionally busier.
	s := selectorScheduler([]models.WorkerSpec{
		{ID: "w1", Capabilities: []string{"work"}, MaxConcurrentTasks: 4},
		{ID: "w2", Capabilities: []string{"work"}, MaxConcurrentTasks: 3},
	}, opts)
	defer s.Close()

	occupy(s, "w1", 1)

	task := &models.Task{ID: "t1", Type: "work"}
	assert.Equal(t, "w1", s.selectWorkerLocked(task))
}

func TestScoreWorkerWeights(t *testing.T) {
	s := selectorScheduler([]models.WorkerSpec{
		{ID: "w1", Capabilities: []string{"research"}, MaxConcurrentTasks: 2},
	}, defaultOptions())
	defer s.Close()

	w := s.workloads["w1"]
	task := &models.Task{ID: "t1", Type: "research"}

	// Idle: 10 (capability) + 5 (no load) + 4 (two free slots).
	assert.InDelta(t, 19.0, s.scoreWorker(w, task), 1e-9)

	occupy(s, "w1", 1)
	// Half loaded: 10 + 2.5 + 2.
	assert.InDelta(t, 14.5, s.scoreWorker(w, task), 1e-9)

	other := &models.Task{ID: "t2", Type: "translation"}
	// No capability match: 2.5 + 2.
	assert.InDelta(t, 4.5, s.scoreWorker(w, other), 1e-9)
}
