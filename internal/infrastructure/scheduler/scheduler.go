package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/assetreg/backend/internal/infrastructure/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the status of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is a unit of scheduled work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobState describes the last run of a registered job
type JobState struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Status      JobStatus  `json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	NextRunAt   *time.Time `json:"next_run_at,omitempty"`
}

type registration struct {
	job     Job
	entryID cron.EntryID
	state   JobState
}

// Scheduler runs jobs on cron schedules. Overlapping runs of the same job are
// skipped and a panicking job is recovered and logged.
type Scheduler struct {
	cron       *cron.Cron
	jobTimeout time.Duration
	logger     *zap.Logger

	mu      sync.RWMutex
	jobs    map[string]*registration
	running bool
}

// New creates a scheduler in the configured timezone
func New(cfg config.SchedulerConfig, logger *zap.Logger) (*Scheduler, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, cfg.Timezone, err)
		}
		loc = l
	}

	logger = logger.Named("scheduler")
	cronLogger := &zapCronLogger{logger: logger}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		jobTimeout: cfg.JobTimeout,
		logger:     logger,
		jobs:       make(map[string]*registration),
	}, nil
}

// AddJob registers a job with a standard five-field cron expression or a
// descriptor such as "@daily"
func (s *Scheduler) AddJob(schedule string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name()]; exists {
		return fmt.Errorf("%w: job %s already registered", ErrInvalidConfig, job.Name())
	}

	reg := &registration{
		job:   job,
		state: JobState{Name: job.Name(), Schedule: schedule, Status: JobStatusPending},
	}
	id, err := s.cron.AddFunc(schedule, func() { s.execute(context.Background(), reg) })
	if err != nil {
		return fmt.Errorf("%w: schedule %q for %s: %v", ErrInvalidConfig, schedule, job.Name(), err)
	}
	reg.entryID = id
	s.jobs[job.Name()] = reg

	s.logger.Info("Job registered",
		zap.String("job", job.Name()),
		zap.String("schedule", schedule),
	)
	return nil
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits for
// running jobs to finish
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))

	<-ctx.Done()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.logger.Info("Scheduler stopped")
	return nil
}

// TriggerNow runs a registered job immediately, outside its schedule
func (s *Scheduler) TriggerNow(ctx context.Context, name string) error {
	s.mu.RLock()
	reg, ok := s.jobs[name]
	running := s.running
	s.mu.RUnlock()

	if !ok {
		return ErrJobNotFound
	}
	if !running {
		return ErrSchedulerNotRunning
	}
	return s.execute(ctx, reg)
}

// Status returns the state of every registered job
func (s *Scheduler) Status() []JobState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]JobState, 0, len(s.jobs))
	for _, reg := range s.jobs {
		st := reg.state
		if entry := s.cron.Entry(reg.entryID); !entry.Next.IsZero() {
			next := entry.Next
			st.NextRunAt = &next
		}
		states = append(states, st)
	}
	return states
}

func (s *Scheduler) execute(ctx context.Context, reg *registration) error {
	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		defer cancel()
	}

	started := time.Now()
	s.mu.Lock()
	reg.state.Status = JobStatusRunning
	reg.state.StartedAt = &started
	reg.state.Error = ""
	s.mu.Unlock()

	err := reg.job.Run(ctx)

	completed := time.Now()
	s.mu.Lock()
	reg.state.CompletedAt = &completed
	if err != nil {
		reg.state.Status = JobStatusFailed
		reg.state.Error = err.Error()
	} else {
		reg.state.Status = JobStatusSuccess
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", reg.job.Name()),
			zap.Duration("duration", completed.Sub(started)),
			zap.Error(err),
		)
		return err
	}
	s.logger.Info("Job completed",
		zap.String("job", reg.job.Name()),
		zap.Duration("duration", completed.Sub(started)),
	)
	return nil
}

// zapCronLogger adapts zap to cron.Logger
type zapCronLogger struct {
	logger *zap.Logger
}

func (l *zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l *zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
