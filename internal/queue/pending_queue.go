package queue

import (
	"sort"
	"sync"

	"github.com/agentdesk/agent-scheduler/internal/models"
)

type entry struct {
	task *models.Task
	seq  uint64
}

// PendingQueue holds tasks awaiting assignment in a stable priority order:
// higher priority first, earlier submission first among equals. With
// prioritization disabled it degrades to plain FIFO.
//
// The scheduler serializes all mutation, but the queue carries its own lock
// so size queries from handlers stay safe.
type PendingQueue struct {
	items      []entry
	seq        uint64
	prioritize bool
	mutex      sync.RWMutex
}

func NewPendingQueue(prioritize bool) *PendingQueue {
	return &PendingQueue{
		items:      make([]entry, 0),
		prioritize: prioritize,
	}
}

// Enqueue appends a task and re-sorts the pending set.
func (pq *PendingQueue) Enqueue(task *models.Task) {
	pq.mutex.Lock()
	defer pq.mutex.Unlock()

	pq.seq++
	pq.items = append(pq.items, entry{task: task, seq: pq.seq})

	if !pq.prioritize {
		return
	}

	sort.SliceStable(pq.items, func(i, j int) bool {
		a, b := pq.items[i], pq.items[j]
		if wa, wb := a.task.Priority.Weight(), b.task.Priority.Weight(); wa != wb {
			return wa > wb
		}
		return a.seq < b.seq
	})
}

// Remove drops the task with the given id. Returns false if it is not queued.
func (pq *PendingQueue) Remove(taskID string) bool {
	pq.mutex.Lock()
	defer pq.mutex.Unlock()

	for i, e := range pq.items {
		if e.task.ID == taskID {
			pq.items = append(pq.items[:i], pq.items[i+1:]...)
			return true
		}
	}
	return false
}

// Tasks returns the queued tasks in assignment order. The dispatcher scans
// this snapshot and skips entries that are not yet eligible.
func (pq *PendingQueue) Tasks() []*models.Task {
	pq.mutex.RLock()
	defer pq.mutex.RUnlock()

	tasks := make([]*models.Task, 0, len(pq.items))
	for _, e := range pq.items {
		tasks = append(tasks, e.task)
	}
	return tasks
}

func (pq *PendingQueue) Size() int {
	pq.mutex.RLock()
	defer pq.mutex.RUnlock()
	return len(pq.items)
}
