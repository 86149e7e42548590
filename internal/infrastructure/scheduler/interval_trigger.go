package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a named job submitted on every tick
type Task struct {
	Name string
	Run  JobFunc
}

// IntervalTrigger submits its tasks to a Scheduler every interval. A task
// whose previous run is still queued or running is skipped for that tick.
type IntervalTrigger struct {
	interval   time.Duration
	runAtStart bool
	scheduler  *Scheduler
	tasks      []Task
	logger     *zap.Logger
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	isRunning  bool
	inFlight   map[string]*Job
}

// NewIntervalTrigger creates a trigger. With runAtStart the tasks are also
// submitted once when the trigger starts.
func NewIntervalTrigger(interval time.Duration, runAtStart bool, scheduler *Scheduler, logger *zap.Logger, tasks ...Task) (*IntervalTrigger, error) {
	if interval <= 0 {
		return nil, errors.New("interval must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntervalTrigger{
		interval:   interval,
		runAtStart: runAtStart,
		scheduler:  scheduler,
		tasks:      tasks,
		logger:     logger.Named("trigger"),
		inFlight:   make(map[string]*Job),
	}, nil
}

// Start starts the trigger loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Interval trigger started",
		zap.Duration("interval", t.interval),
		zap.Int("tasks", len(t.tasks)),
	)
	return nil
}

// Stop stops the trigger loop
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Interval trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	if t.runAtStart {
		t.Tick()
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

// Tick submits every task that is not already in flight
func (t *IntervalTrigger) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, task := range t.tasks {
		if prev, ok := t.inFlight[task.Name]; ok && !finished(prev) {
			t.logger.Debug("Skipping task, previous run in flight", zap.String("job", task.Name))
			continue
		}
		job, err := t.scheduler.Submit(task.Name, task.Run)
		if err != nil {
			t.logger.Error("Failed to submit task", zap.String("job", task.Name), zap.Error(err))
			continue
		}
		t.inFlight[task.Name] = job
	}
}

func finished(job *Job) bool {
	select {
	case <-job.Done():
		return true
	default:
		return false
	}
}
