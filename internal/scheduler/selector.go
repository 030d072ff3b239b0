package scheduler

import "github.com/agentdesk/agent-scheduler/internal/models"

// Scoring weights. A perfectly idle but incapable worker can never outrank
// a busy-but-capable one by more than the capability bonus, while among
// equally capable workers the load terms keep assignment balanced.
const (
	capabilityBonus = 10.0
	loadBalanceMax  = 5.0
	slackWeight     = 2.0
)

// selectWorkerLocked scores every worker with a free slot and returns the
// best one, or "" when no worker has capacity. Ties keep the earliest
// roster entry, so selection is deterministic for a fixed roster.
func (s *Scheduler) selectWorkerLocked(task *models.Task) string {
	bestID := ""
	bestScore := 0.0

	for _, id := range s.rosterOrder {
		workload := s.workloads[id]
		if !workload.HasCapacity() {
			continue
		}

		score := s.scoreWorker(workload, task)
		if bestID == "" || score > bestScore {
			bestID = id
			bestScore = score
		}
	}

	return bestID
}

func (s *Scheduler) scoreWorker(w *models.WorkerWorkload, task *models.Task) float64 {
	score := 0.0

	if w.Prefers(task.Type) {
		score += capabilityBonus
	}

	if s.opts.EnableLoadBalancing {
		score += (1 - w.CurrentLoad) * loadBalanceMax
	}

	score += float64(w.MaxConcurrentTasks-len(w.CurrentTasks)) * slackWeight

	return score
}
