package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"huddle/config"
	"huddle/services/coordination"

	"github.com/hibiken/asynq"
)

const TypePlannerRun = "planner:run"

type plannerTaskPayload struct {
	SessionID string `json:"sessionId"`
}

// NewPlannerTask builds the task that runs one planning attempt.
func NewPlannerTask(sessionID string) (*asynq.Task, error) {
	payload, err := json.Marshal(plannerTaskPayload{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePlannerRun, payload), nil
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// AsynqDispatcher enqueues planner runs on the task queue. Transient gateway
// failures are retried with backoff; the registry's planning deadline is the
// backstop when every retry fails.
type AsynqDispatcher struct {
	client *asynq.Client
}

func NewAsynqDispatcher() *AsynqDispatcher {
	return &AsynqDispatcher{client: asynq.NewClient(redisOpts())}
}

func (d *AsynqDispatcher) EnqueuePlanning(sessionID string) error {
	task, err := NewPlannerTask(sessionID)
	if err != nil {
		return err
	}
	_, err = d.client.Enqueue(task,
		asynq.MaxRetry(3),
		asynq.Timeout(2*config.AppConfig.PlannerTimeout))
	return err
}

func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}

// InitPlannerWorker runs the async worker in background.
func InitPlannerWorker(registry *coordination.Registry) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePlannerRun, handlePlannerTask(registry))

	go func() {
		log.Println("[PlannerWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[PlannerWorker] failed to start worker: %v", err)
		}
	}()
	return srv
}

func handlePlannerTask(registry *coordination.Registry) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload plannerTaskPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("malformed planner task payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := registry.RunPlanning(ctx, payload.SessionID); err != nil {
			if err == coordination.ErrSessionNotFound {
				// Session vanished (restored from an older snapshot); nothing to retry.
				return nil
			}
			return err
		}
		return nil
	}
}

// SnapshotSaver persists the registry snapshot between sweeps.
type SnapshotSaver interface {
	Save(ctx context.Context, snap coordination.Snapshot) error
}

// StartSweeper periodically runs the registry sweep and persists a snapshot.
// The sweep is idempotent, so the cadence only affects how quickly stuck
// sessions are rescued.
func StartSweeper(ctx context.Context, registry *coordination.Registry, saver SnapshotSaver, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				registry.Sweep(now)
				if saver != nil {
					saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					if err := saver.Save(saveCtx, registry.Snapshot()); err != nil {
						log.Printf("[Sweeper] failed to persist snapshot: %v", err)
					}
					cancel()
				}
			}
		}
	}()
}
