// Package archive mirrors terminal task records into Redis so that external
// dashboards can read outcomes without touching the scheduler. It is an
// observability mirror only; the scheduler never reads it back.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/agentdesk/agent-scheduler/internal/config"
	"github.com/agentdesk/agent-scheduler/internal/models"
)

const (
	taskKeyPrefix = "agent_scheduler:task:"
	updateChannel = "agent_scheduler:updates"
)

type Archive struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// New connects to Redis and verifies the connection with a ping.
func New(cfg config.Redis, log *zap.Logger) (*Archive, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Archive{client: client, ttl: ttl, log: log}, nil
}

func (a *Archive) Close() error {
	return a.client.Close()
}

// Record writes a terminal task snapshot as a hash with a TTL and publishes
// an update notification. Failures are logged, never propagated; the
// scheduler must not stall on the mirror.
func (a *Archive) Record(task models.Task) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fields := map[string]interface{}{
		"id":        task.ID,
		"type":      task.Type,
		"status":    string(task.Status),
		"priority":  string(task.Priority),
		"worker_id": task.WorkerID,
	}
	if task.StartedAt != nil {
		fields["started_at"] = task.StartedAt.Format(time.RFC3339Nano)
	}
	if task.CompletedAt != nil {
		fields["completed_at"] = task.CompletedAt.Format(time.RFC3339Nano)
	}
	if task.Error != "" {
		fields["error"] = task.Error
	}
	if task.Result != nil {
		if data, err := json.Marshal(task.Result); err == nil {
			fields["result"] = string(data)
		}
	}

	key := taskKeyPrefix + task.ID

	pipe := a.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, a.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		a.log.Warn("Failed to archive task", zap.String("task_id", task.ID), zap.Error(err))
		return
	}

	a.publishUpdate(ctx, task.ID, string(task.Status))
}

func (a *Archive) publishUpdate(ctx context.Context, taskID, status string) {
	message, err := json.Marshal(map[string]interface{}{
		"task_id":   taskID,
		"status":    status,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		return
	}

	if err := a.client.Publish(ctx, updateChannel, message).Err(); err != nil {
		a.log.Warn("Failed to publish task update", zap.String("task_id", taskID), zap.Error(err))
	}
}

// CleanupExpired removes archived task keys whose TTL was lost (for example
// after a manual PERSIST). Run periodically from the cron scheduler.
func (a *Archive) CleanupExpired(ctx context.Context) error {
	iter := a.client.Scan(ctx, 0, taskKeyPrefix+"*", 0).Iterator()

	removed := 0
	for iter.Next(ctx) {
		key := iter.Val()
		if ttl := a.client.TTL(ctx, key).Val(); ttl < 0 {
			a.client.Del(ctx, key)
			removed++
		}
	}

	if removed > 0 {
		a.log.Info("Archive cleanup removed stale keys", zap.Int("count", removed))
	}

	return iter.Err()
}
