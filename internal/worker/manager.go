package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"blogosphere/internal/logger"
)

const (
	// DefaultInterval is used for jobs registered without an interval
	DefaultInterval = time.Hour

	// DefaultJobTimeout bounds a single run of a job
	DefaultJobTimeout = time.Minute
)

// Job is a maintenance task run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Manager runs each registered job in its own goroutine until stopped.
type Manager struct {
	jobs       []Job
	jobTimeout time.Duration
	log        zerolog.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	JobTimeout time.Duration
}

// NewManager creates a new worker manager.
func NewManager(cfg ManagerConfig, jobs ...Job) *Manager {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultJobTimeout
	}
	for i := range jobs {
		if jobs[i].Interval <= 0 {
			jobs[i].Interval = DefaultInterval
		}
	}

	return &Manager{
		jobs:       jobs,
		jobTimeout: cfg.JobTimeout,
		log:        logger.Component("worker"),
	}
}

// Start runs every job once immediately and then on its interval.
// Call Stop() to gracefully shut down.
func (m *Manager) Start(ctx context.Context) {
	m.ctx, m.cancel = context.WithCancel(ctx)

	for _, job := range m.jobs {
		m.wg.Add(1)
		go m.runJob(job)
	}

	m.log.Info().Int("jobs", len(m.jobs)).Msg("workers started")
}

// Stop cancels all jobs and blocks until they have returned.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
	m.log.Info().Msg("workers stopped")
}

func (m *Manager) runJob(job Job) {
	defer m.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		m.runOnce(job)

		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (m *Manager) runOnce(job Job) {
	ctx, cancel := context.WithTimeout(m.ctx, m.jobTimeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		if m.ctx.Err() != nil {
			return
		}
		m.log.Error().Err(err).Str("job", job.Name).Msg("job failed")
		return
	}
	m.log.Debug().Str("job", job.Name).Dur("duration", time.Since(start)).Msg("job finished")
}
