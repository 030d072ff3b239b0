// Package cron drives the scheduler's periodic jobs: the daily activity
// summary task, the workload stats heartbeat and the archive cleanup sweep.
package cron

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/agentdesk/agent-scheduler/internal/archive"
	"github.com/agentdesk/agent-scheduler/internal/config"
	"github.com/agentdesk/agent-scheduler/internal/models"
	"github.com/agentdesk/agent-scheduler/internal/scheduler"
)

type Jobs struct {
	cron  gocron.Scheduler
	sched *scheduler.Scheduler
	arch  *archive.Archive
	cfg   config.Cron
	log   *zap.Logger
}

// New builds the periodic job runner. The archive may be nil when the
// Redis mirror is disabled.
func New(sched *scheduler.Scheduler, arch *archive.Archive, cfg config.Cron, log *zap.Logger) (*Jobs, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Jobs{
		cron:  cron,
		sched: sched,
		arch:  arch,
		cfg:   cfg,
		log:   log,
	}, nil
}

// RegisterJobs wires up the recurring jobs and starts the cron scheduler.
func (j *Jobs) RegisterJobs() {
	if _, err := j.cron.NewJob(
		gocron.CronJob(j.cfg.SummarySchedule, false),
		gocron.NewTask(j.submitDailySummary),
	); err != nil {
		j.log.Error("Failed to register daily summary job", zap.Error(err))
	}

	if _, err := j.cron.NewJob(
		gocron.DurationJob(j.cfg.StatsInterval),
		gocron.NewTask(j.logWorkloadStats),
	); err != nil {
		j.log.Error("Failed to register stats heartbeat job", zap.Error(err))
	}

	if j.arch != nil {
		if _, err := j.cron.NewJob(
			gocron.DurationJob(j.cfg.CleanupInterval),
			gocron.NewTask(j.cleanupArchive),
		); err != nil {
			j.log.Error("Failed to register archive cleanup job", zap.Error(err))
		}
	}

	j.cron.Start()
	j.log.Info("Cron jobs started", zap.String("summary_schedule", j.cfg.SummarySchedule))
}

func (j *Jobs) Stop() {
	if err := j.cron.Shutdown(); err != nil {
		j.log.Error("Failed to shut down cron scheduler", zap.Error(err))
	}
}

func (j *Jobs) submitDailySummary() {
	taskID, err := j.sched.Submit(models.TaskDraft{
		Type:        "summary_report",
		Description: "Daily agent activity summary",
		Priority:    models.PriorityHigh,
		Payload: map[string]interface{}{
			"report_date": time.Now().UTC().Format("2006-01-02"),
		},
	})
	if err != nil {
		j.log.Error("Failed to submit daily summary task", zap.Error(err))
		return
	}
	j.log.Info("Daily summary task submitted", zap.String("task_id", taskID))
}

func (j *Jobs) logWorkloadStats() {
	status := j.sched.Status()

	busy := 0
	for _, w := range status.Workloads {
		if len(w.CurrentTasks) > 0 {
			busy++
		}
	}

	j.log.Info("Workload stats",
		zap.Int("busy_workers", busy),
		zap.Int("idle_workers", status.WorkerCount-busy),
		zap.Int("running_tasks", status.RunningTasks),
		zap.Int("queued_tasks", status.QueuedTasks))
}

func (j *Jobs) cleanupArchive() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.arch.CleanupExpired(ctx); err != nil {
		j.log.Warn("Archive cleanup failed", zap.Error(err))
	}
}
