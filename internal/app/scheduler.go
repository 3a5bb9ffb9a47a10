package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a job run on a fixed interval.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs background tasks until stopped.
type Scheduler struct {
	tasks    []Task
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewScheduler(logger *zap.Logger, tasks ...Task) *Scheduler {
	return &Scheduler{
		tasks:    tasks,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches one goroutine per task.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Int("tasks", len(s.tasks)))

	for _, task := range s.tasks {
		if task.Interval <= 0 || task.Run == nil {
			s.logger.Warn("Skipping task without interval", zap.String("task", task.Name))
			continue
		}
		s.wg.Add(1)
		go s.runTask(ctx, task)
	}
}

// Stop stops every task and waits for the running ones to return.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) runTask(ctx context.Context, task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := task.Run(ctx); err != nil {
				s.logger.Error("Background task failed",
					zap.String("task", task.Name),
					zap.Error(err))
			}
		case <-s.stopChan:
			s.logger.Info("Background task stopped", zap.String("task", task.Name))
			return
		case <-ctx.Done():
			s.logger.Info("Background task cancelled", zap.String("task", task.Name))
			return
		}
	}
}
