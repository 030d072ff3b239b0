package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the scheduler's prometheus collectors.
type Metrics struct {
	TasksSubmitted prometheus.Counter
	TasksFinished  *prometheus.CounterVec
	RunningTasks   prometheus.Gauge
	QueuedTasks    prometheus.Gauge
	WorkerLoad     *prometheus.GaugeVec
}

// New registers the scheduler collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TasksSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_tasks_submitted_total",
			Help: "Tasks accepted by Submit.",
		}),
		TasksFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_tasks_finished_total",
			Help: "Tasks reaching a terminal state, by status.",
		}, []string{"status"}),
		RunningTasks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_running_tasks",
			Help: "Tasks currently executing.",
		}),
		QueuedTasks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_queued_tasks",
			Help: "Tasks waiting for assignment.",
		}),
		WorkerLoad: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scheduler_worker_load",
			Help: "Per-worker load factor (current tasks / max concurrent).",
		}, []string{"worker_id"}),
	}
}
