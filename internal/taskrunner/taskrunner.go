// Package taskrunner executes chapter tasks with in-memory workers. It is
// the default executor when no Redis queue is configured.
package taskrunner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"chaptermark/internal/service"
	"chaptermark/log"
)

const (
	defaultQueueSize   = 128
	defaultConcurrency = 2
)

var (
	ErrRunnerStopped = errors.New("task runner stopped")
	ErrQueueFull     = errors.New("task queue is full")
)

// Config controls in-process task runner behavior.
type Config struct {
	QueueSize   int
	Concurrency int
}

func DefaultConfig() Config {
	return Config{
		QueueSize:   defaultQueueSize,
		Concurrency: defaultConcurrency,
	}
}

// Runner executes queued chapter tasks with in-memory workers.
type Runner struct {
	service *service.Service
	config  Config

	queue  chan string
	ctx    context.Context
	cancel context.CancelFunc

	workerWg sync.WaitGroup
	closed   atomic.Bool
}

// New creates and starts a task runner.
func New(svc *service.Service, cfg Config) *Runner {
	cfg = normalizeConfig(cfg)
	ctx, cancel := context.WithCancel(context.Background())

	runner := &Runner{
		service: svc,
		config:  cfg,
		queue:   make(chan string, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < cfg.Concurrency; i++ {
		runner.workerWg.Add(1)
		go runner.worker(i + 1)
	}

	return runner
}

func normalizeConfig(cfg Config) Config {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return cfg
}

// Submit queues a chapter task by id. Implements service.Executor.
func (r *Runner) Submit(taskId string) error {
	if r.closed.Load() {
		return ErrRunnerStopped
	}

	select {
	case <-r.ctx.Done():
		return ErrRunnerStopped
	case r.queue <- taskId:
		log.GetLogger().Info("[TaskRunner] task submitted", zap.String("task_id", taskId))
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop drains no further work and waits for in-flight tasks.
func (r *Runner) Stop() {
	if r.closed.Swap(true) {
		return
	}
	r.cancel()
	r.workerWg.Wait()
}

func (r *Runner) worker(workerID int) {
	defer r.workerWg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		select {
		case <-r.ctx.Done():
			return
		case taskId := <-r.queue:
			if err := r.service.ProcessTask(r.ctx, taskId); err != nil {
				log.GetLogger().Error("[TaskRunner] task failed",
					zap.Int("worker_id", workerID),
					zap.String("task_id", taskId),
					zap.Error(err))
				continue
			}
			log.GetLogger().Info("[TaskRunner] task completed",
				zap.Int("worker_id", workerID),
				zap.String("task_id", taskId))
		}
	}
}
