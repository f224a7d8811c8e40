package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/related-nodes/app/catalog"
	"github.com/lysyi3m/related-nodes/app/database"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Stats struct {
	CurrentWorkers int
	QueueSize      int
	TotalProcessed int64
	TotalErrors    int64
}

type Scheduler struct {
	catalog     *catalog.Catalog
	counterRepo database.CounterRepository
	importer    FeedImporter
	interval    time.Duration
	workerCount int
	now         func() time.Time
	dayStart    time.Time
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
	mu          sync.Mutex
	stats       Stats
}

func NewScheduler(c *catalog.Catalog, counterRepo database.CounterRepository, importer FeedImporter,
	interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		catalog:     c,
		counterRepo: counterRepo,
		importer:    importer,
		interval:    interval,
		workerCount: workerCount,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
		stats:       Stats{CurrentWorkers: workerCount},
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

// Stop cancels workers and pending retries and waits for them. The queue
// stays open so a late EnqueueTask returns an error instead of panicking.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueTasks() {
	s.enqueueDayReset()

	imports := s.catalog.EnabledImports()
	if len(imports) == 0 {
		slog.Debug("No enabled imports found")
		return
	}

	slog.Debug("Scheduling feed imports", "count", len(imports))

	for _, imp := range imports {
		if err := s.EnqueueTask(NewImportFeedTask(imp, s.importer)); err != nil {
			slog.Warn("Failed to enqueue ImportFeedTask", "import", imp.Name, "error", err)
		}
	}
}

// enqueueDayReset schedules a day counter reset once per local day,
// including the first run after startup.
func (s *Scheduler) enqueueDayReset() {
	dayStart := database.StartOfDay(s.now())
	if dayStart.Equal(s.dayStart) {
		return
	}

	if err := s.EnqueueTask(NewResetDayCountsTask(dayStart, s.counterRepo)); err != nil {
		slog.Warn("Failed to enqueue ResetDayCountsTask", "day", dayStart.Format(time.DateOnly), "error", err)
		return
	}
	s.dayStart = dayStart
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	s.recordResult(err)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "subject", task.GetSubject(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()

				timer := time.NewTimer(retryDelay)
				defer timer.Stop()

				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
				case <-timer.C:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}

func (s *Scheduler) recordResult(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.TotalProcessed++
	if err != nil {
		s.stats.TotalErrors++
	}
}

func (s *Scheduler) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	stats.QueueSize = len(s.taskQueue)
	return stats
}

// Health reports the scheduler as degraded when more than a tenth of the
// executed tasks failed.
func (s *Scheduler) Health() map[string]any {
	stats := s.GetStats()

	var errorRate float64
	if stats.TotalProcessed > 0 {
		errorRate = float64(stats.TotalErrors) / float64(stats.TotalProcessed)
	}

	status := "healthy"
	if errorRate > 0.1 {
		status = "degraded"
	}

	return map[string]any{
		"status":          status,
		"workers":         stats.CurrentWorkers,
		"queue_size":      stats.QueueSize,
		"total_processed": stats.TotalProcessed,
		"total_errors":    stats.TotalErrors,
		"error_rate":      errorRate,
	}
}
