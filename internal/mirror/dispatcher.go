package mirror

import (
	"context"
	"log/slog"
	"sync"

	"salesledger/internal/core"
)

// Job is one day to mirror.
type Job struct {
	UserID string
	Date   string // YYYY-MM-DD
	Entry  core.DailyEntry
}

// Dispatcher hands mirror jobs off the caller's path. Dispatch must not block.
type Dispatcher interface {
	Dispatch(job Job)
}

// Handler performs one job.
type Handler func(ctx context.Context, job Job) error

// SyncHandler mirrors jobs in-process through the syncer. The user row is
// ensured before an eligible day is appended.
func SyncHandler(s *Syncer) Handler {
	return func(ctx context.Context, job Job) error {
		if Eligible(job.Entry) {
			if reg := s.RegisterUser(ctx, job.UserID, ""); !reg.OK {
				slog.WarnContext(ctx, "Could not ensure remote user", "user_id", job.UserID, "reason", reg.Reason)
			}
		}
		s.MirrorDay(ctx, job.UserID, job.Date, job.Entry)
		return nil
	}
}

// AsyncDispatcher runs jobs on a fixed pool of goroutines fed by a bounded
// queue. When the queue is full the job is dropped.
type AsyncDispatcher struct {
	jobs    chan Job
	handler Handler
	workers int

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

var _ Dispatcher = (*AsyncDispatcher)(nil)

// NewAsyncDispatcher starts workers goroutines reading from a queue of
// queueSize jobs.
func NewAsyncDispatcher(handler Handler, workers, queueSize int) *AsyncDispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &AsyncDispatcher{
		jobs:    make(chan Job, queueSize),
		handler: handler,
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	return d
}

func (d *AsyncDispatcher) run() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.handle(job)
	}
}

func (d *AsyncDispatcher) handle(job Job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Mirror job panicked", "user_id", job.UserID, "date", job.Date, "panic", r)
		}
	}()
	if err := d.handler(d.ctx, job); err != nil {
		slog.Error("Mirror job failed", "user_id", job.UserID, "date", job.Date, "error", err)
	}
}

// Dispatch enqueues the job or drops it when the queue is full or the
// dispatcher is shut down.
func (d *AsyncDispatcher) Dispatch(job Job) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		slog.Warn("Dispatcher closed, dropping mirror job", "user_id", job.UserID, "date", job.Date)
		return
	}
	select {
	case d.jobs <- job:
	default:
		slog.Warn("Mirror queue full, dropping job", "user_id", job.UserID, "date", job.Date)
	}
}

// Pending is the number of queued jobs not yet picked up.
func (d *AsyncDispatcher) Pending() int {
	return len(d.jobs)
}

// Shutdown stops accepting jobs and waits for queued ones to finish. If ctx
// ends first, in-flight handlers are cancelled and ctx.Err is returned.
func (d *AsyncDispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		slog.Info("Mirror dispatcher drained")
		return nil
	case <-ctx.Done():
		d.cancel()
		slog.Warn("Mirror dispatcher shutdown timed out", "remaining_jobs", len(d.jobs))
		return ctx.Err()
	}
}
