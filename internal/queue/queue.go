// Package queue provides background chapter task processing using Asynq.
// It is the optional Redis-backed alternative to the in-process runner.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"chaptermark/config"
	"chaptermark/internal/service"
	"chaptermark/log"
)

const TypeChapterTask = "chapter:generate"

// ChapterTaskPayload identifies the persisted task to process.
type ChapterTaskPayload struct {
	TaskID string `json:"task_id"`
}

// Config holds Redis configuration for Asynq.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
}

// ConfigFromApp reads the queue section of the loaded configuration.
func ConfigFromApp() Config {
	q := config.Conf.Queue
	cfg := Config{
		RedisAddr:     q.RedisAddr,
		RedisPassword: q.RedisPassword,
		RedisDB:       q.RedisDB,
		Concurrency:   q.Concurrency,
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 3
	}
	return cfg
}

// Queue manages task enqueueing and processing.
type Queue struct {
	client *asynq.Client
	server *asynq.Server
	config Config
}

func NewQueue(cfg Config) *Queue {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			RetryDelayFunc: func(n int, e error, t *asynq.Task) time.Duration {
				// Exponential backoff: 10s, 20s, 40s, ...
				return time.Duration(10<<uint(n)) * time.Second
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.GetLogger().Error("[Queue] task failed",
					zap.String("type", task.Type()),
					zap.ByteString("payload", task.Payload()),
					zap.Error(err))
			}),
		},
	)

	return &Queue{
		client: client,
		server: server,
		config: cfg,
	}
}

// Submit enqueues a chapter task by id. Implements service.Executor.
func (q *Queue) Submit(taskId string) error {
	data, err := json.Marshal(ChapterTaskPayload{TaskID: taskId})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeChapterTask, data,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("default"),
	)

	info, err := q.client.Enqueue(task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.GetLogger().Info("[Queue] task enqueued",
		zap.String("task_id", taskId),
		zap.String("queue_id", info.ID))
	return nil
}

// Close releases the enqueue client.
func (q *Queue) Close() error {
	return q.client.Close()
}

// TaskHandlers provides asynq handlers backed by the service.
type TaskHandlers struct {
	service *service.Service
}

func NewTaskHandlers(svc *service.Service) *TaskHandlers {
	return &TaskHandlers{service: svc}
}

// HandleChapterTask processes one chapter generation task.
func (h *TaskHandlers) HandleChapterTask(ctx context.Context, t *asynq.Task) error {
	var payload ChapterTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.GetLogger().Info("[Queue] processing chapter task",
		zap.String("task_id", payload.TaskID))
	return h.service.ProcessTask(ctx, payload.TaskID)
}

func (h *TaskHandlers) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeChapterTask, h.HandleChapterTask)
}

// StartWorker runs the Asynq worker with registered handlers. Blocks
// until the server stops.
func StartWorker(q *Queue, svc *service.Service) error {
	mux := asynq.NewServeMux()
	NewTaskHandlers(svc).RegisterHandlers(mux)

	log.GetLogger().Info("[Queue] starting worker",
		zap.String("redis_addr", q.config.RedisAddr),
		zap.Int("concurrency", q.config.Concurrency))

	return q.server.Run(mux)
}
