package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// CleanupScheduler periodically removes card metadata older than the cache TTL.
type CleanupScheduler struct {
	service  *Service
	config   *SchedulerConfig
	logger   *slog.Logger
	ticker   *time.Ticker
	stopChan chan struct{}
	done     chan struct{}
	mu       sync.RWMutex
	running  bool

	lastRun      time.Time
	lastError    error
	runCount     int
	failureCount int
	totalDeleted int64
}

// SchedulerConfig holds configuration for the cleanup scheduler.
type SchedulerConfig struct {
	// Interval is how often stale rows are purged.
	Interval time.Duration

	// TTL is how long a fetched row stays valid.
	TTL time.Duration

	// StartImmediately runs a cleanup when the scheduler starts.
	StartImmediately bool

	// OnCleanupComplete is called after each cleanup attempt.
	OnCleanupComplete func(deleted int64, err error)

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultSchedulerConfig returns a config that purges week-old rows hourly.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Interval: time.Hour,
		TTL:      7 * 24 * time.Hour,
	}
}

// NewCleanupScheduler creates a new cleanup scheduler.
func NewCleanupScheduler(service *Service, config *SchedulerConfig) *CleanupScheduler {
	if config == nil {
		config = DefaultSchedulerConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CleanupScheduler{
		service: service,
		config:  config,
		logger:  logger,
	}
}

// Start starts the cleanup loop. It returns an error if already running.
func (s *CleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	if s.config.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive")
	}

	s.ticker = time.NewTicker(s.config.Interval)
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true

	go s.run(s.ticker, s.stopChan, s.done)
	return nil
}

// Stop stops the scheduler and waits for an in-flight cleanup to finish.
func (s *CleanupScheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler is not running")
	}
	close(s.stopChan)
	s.ticker.Stop()
	s.ticker = nil
	s.running = false
	done := s.done
	s.mu.Unlock()

	<-done
	return nil
}

func (s *CleanupScheduler) run(ticker *time.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	if s.config.StartImmediately {
		s.RunOnce(ctx)
	}

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-stop:
			return
		}
	}
}

// RunOnce performs a single cleanup pass and records the outcome.
func (s *CleanupScheduler) RunOnce(ctx context.Context) (int64, error) {
	deleted, err := s.service.DeleteStaleCardMetadata(ctx, s.config.TTL)

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastError = err
	s.runCount++
	if err != nil {
		s.failureCount++
	} else {
		s.totalDeleted += deleted
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("card metadata cleanup failed", "error", err)
	} else if deleted > 0 {
		s.logger.Info("purged stale card metadata", "deleted", deleted, "ttl", s.config.TTL)
	}

	if s.config.OnCleanupComplete != nil {
		s.config.OnCleanupComplete(deleted, err)
	}
	return deleted, err
}

// IsRunning returns whether the scheduler is currently running.
func (s *CleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Status returns the current scheduler status.
func (s *CleanupScheduler) Status() *SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &SchedulerStatus{
		Running:      s.running,
		Interval:     s.config.Interval,
		TTL:          s.config.TTL,
		LastRun:      s.lastRun,
		RunCount:     s.runCount,
		FailureCount: s.failureCount,
		TotalDeleted: s.totalDeleted,
		LastError:    s.lastError,
	}
}

// SchedulerStatus contains information about the scheduler state.
type SchedulerStatus struct {
	Running      bool
	Interval     time.Duration
	TTL          time.Duration
	LastRun      time.Time
	RunCount     int
	FailureCount int
	TotalDeleted int64
	LastError    error
}

// String returns a human-readable representation of the scheduler status.
func (s *SchedulerStatus) String() string {
	if !s.Running {
		return "Cleanup: Stopped"
	}

	status := "Cleanup: Running\n"
	status += fmt.Sprintf("  Interval: %s\n", s.Interval)
	status += fmt.Sprintf("  TTL: %s\n", s.TTL)
	status += fmt.Sprintf("  Runs: %d\n", s.RunCount)
	status += fmt.Sprintf("  Failures: %d\n", s.FailureCount)
	status += fmt.Sprintf("  Rows Purged: %d\n", s.TotalDeleted)

	if !s.LastRun.IsZero() {
		status += fmt.Sprintf("  Last Run: %s\n", s.LastRun.Format(time.RFC3339))
	}
	if s.LastError != nil {
		status += fmt.Sprintf("  Last Error: %v\n", s.LastError)
	}

	return status
}
