// Package mirror copies committed in-memory mutations to the durable store.
//
// Jobs run one at a time in enqueue order. A failing job is retried in place
// with exponential backoff. After MaxAttempts the job stays at the head of the
// queue as a dead letter and the worker parks until Requeue is called, so a
// later job never lands before an earlier one.
package mirror

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// ErrClosed is returned by Enqueue once Close has been called
var ErrClosed = errors.New("mirror is closed")

// ErrUndelivered is returned by Close when queued jobs were never written
var ErrUndelivered = errors.New("mirror closed with undelivered jobs")

// Job is one durable write. Apply runs inside a single transaction and must
// be idempotent.
type Job struct {
	Name  string
	Apply func(ctx context.Context, repos *repository.Repositories) error
}

// DeadLetter is the head job that ran out of attempts. Blocked counts the
// jobs queued behind it.
type DeadLetter struct {
	Name      string    `json:"name"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error"`
	FailedAt  time.Time `json:"failed_at"`
	Blocked   int       `json:"blocked"`
}

// Status is a snapshot of the queue
type Status struct {
	Pending     int          `json:"pending"`
	DeadLetters []DeadLetter `json:"dead_letters"`
}

type Config struct {
	MaxAttempts  int
	BaseBackoff  time.Duration
	MaxBackoff   time.Duration
	WriteTimeout time.Duration
}

type Mirror struct {
	uow repository.UnitOfWork
	cfg Config
	log *zap.Logger

	mu      sync.Mutex
	queue   []Job
	dead    *DeadLetter
	closing bool
	started bool

	notify chan struct{}
	stop   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

// New creates a mirror writing through uow. Call Start to begin processing.
func New(uow repository.UnitOfWork, cfg Config, log *zap.Logger) *Mirror {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff < cfg.BaseBackoff {
		cfg.MaxBackoff = cfg.BaseBackoff
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Mirror{
		uow:    uow,
		cfg:    cfg,
		log:    log.Named("mirror"),
		notify: make(chan struct{}, 1),
		stop:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the worker. Jobs enqueued before Start are kept.
func (m *Mirror) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.closing {
		return
	}
	m.started = true
	m.wg.Go(m.run)
}

// Enqueue appends a job without blocking
func (m *Mirror) Enqueue(job Job) error {
	m.mu.Lock()
	if m.closing {
		m.mu.Unlock()
		return ErrClosed
	}
	m.queue = append(m.queue, job)
	queueDepth.Set(float64(len(m.queue)))
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
	return nil
}

// Pending returns the number of queued jobs, including the one in flight
func (m *Mirror) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// DeadLetters returns the parked head job, if any
func (m *Mirror) DeadLetters() []DeadLetter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dead == nil {
		return []DeadLetter{}
	}
	d := *m.dead
	d.Blocked = len(m.queue) - 1
	return []DeadLetter{d}
}

func (m *Mirror) Status() Status {
	return Status{Pending: m.Pending(), DeadLetters: m.DeadLetters()}
}

// Requeue releases the parked head job for a fresh round of attempts. It
// returns 1 when a job was released and 0 when nothing was parked.
func (m *Mirror) Requeue() int {
	m.mu.Lock()
	if m.closing || m.dead == nil {
		m.mu.Unlock()
		return 0
	}
	name := m.dead.Name
	m.dead = nil
	m.mu.Unlock()

	m.log.Info("requeued dead letter", zap.String("job", name))
	select {
	case m.notify <- struct{}{}:
	default:
	}
	return 1
}

// Close stops accepting jobs and waits for the queue to drain. When ctx ends
// first, in-flight work is abandoned and the remaining jobs are dropped. A
// parked dead letter stops the drain and Close reports ErrUndelivered.
func (m *Mirror) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closing {
		m.mu.Unlock()
		return nil
	}
	m.closing = true
	started := m.started
	m.mu.Unlock()
	close(m.stop)

	if !started {
		m.cancel()
		return m.undelivered()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.cancel()
		return m.undelivered()
	case <-ctx.Done():
		m.cancel()
		<-done
		_ = m.undelivered()
		return ctx.Err()
	}
}

func (m *Mirror) undelivered() error {
	left := m.Pending()
	if left == 0 {
		return nil
	}
	m.log.Error("mirror closed before draining", zap.Int("dropped", left))
	return ErrUndelivered
}

func (m *Mirror) run() {
	for {
		job, ok := m.front()
		if !ok {
			return
		}
		if !m.process(job) {
			if !m.park() {
				return
			}
			continue
		}
		m.popFront()
	}
}

// park blocks while the head job is a dead letter. It returns true once
// Requeue releases it and false when the mirror shuts down.
func (m *Mirror) park() bool {
	for {
		m.mu.Lock()
		parked := m.dead != nil
		closing := m.closing
		m.mu.Unlock()
		if !parked {
			return m.ctx.Err() == nil
		}
		if closing || m.ctx.Err() != nil {
			return false
		}

		select {
		case <-m.notify:
		case <-m.stop:
		case <-m.ctx.Done():
		}
	}
}

// front blocks until a job is queued. It returns false once the mirror is
// closing and the queue is empty, or when the worker context is cancelled.
func (m *Mirror) front() (Job, bool) {
	for {
		m.mu.Lock()
		if len(m.queue) > 0 {
			job := m.queue[0]
			m.mu.Unlock()
			return job, m.ctx.Err() == nil
		}
		closing := m.closing
		m.mu.Unlock()
		if closing {
			return Job{}, false
		}

		select {
		case <-m.notify:
		case <-m.stop:
		case <-m.ctx.Done():
			return Job{}, false
		}
	}
}

func (m *Mirror) popFront() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = m.queue[1:]
	queueDepth.Set(float64(len(m.queue)))
}

// process reports whether job was written
func (m *Mirror) process(job Job) bool {
	for attempt := 1; ; attempt++ {
		err := m.apply(job)
		if err == nil {
			jobsTotal.WithLabelValues("ok").Inc()
			return true
		}

		if attempt >= m.cfg.MaxAttempts || m.ctx.Err() != nil {
			m.bury(job, attempt, err)
			return false
		}

		delay := Backoff(attempt, m.cfg.BaseBackoff, m.cfg.MaxBackoff)
		jobsTotal.WithLabelValues("retry").Inc()
		m.log.Warn("mirror write failed, retrying",
			zap.String("job", job.Name),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-m.ctx.Done():
			timer.Stop()
			m.bury(job, attempt, err)
			return false
		}
	}
}

func (m *Mirror) apply(job Job) (err error) {
	ctx, cancel := context.WithTimeout(m.ctx, m.cfg.WriteTimeout)
	defer cancel()

	var pc panics.Catcher
	pc.Try(func() {
		err = m.uow.Do(ctx, job.Apply)
	})
	if r := pc.Recovered(); r != nil {
		return r.AsError()
	}
	return err
}

func (m *Mirror) bury(job Job, attempts int, err error) {
	jobsTotal.WithLabelValues("dead").Inc()
	m.log.Error("mirror write parked as dead letter",
		zap.String("job", job.Name),
		zap.Int("attempts", attempts),
		zap.Error(err),
	)

	m.mu.Lock()
	m.dead = &DeadLetter{
		Name:      job.Name,
		Attempts:  attempts,
		LastError: err.Error(),
		FailedAt:  time.Now().UTC(),
	}
	m.mu.Unlock()
}

// Backoff returns base * 2^(attempt-1), capped at max
func Backoff(attempt int, base, max time.Duration) time.Duration {
	if attempt <= 0 {
		return base
	}
	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
	if delay > max || delay <= 0 {
		return max
	}
	return delay
}
