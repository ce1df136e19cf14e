package task

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ExpiredDeleter removes cache entries that expired before an instant.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// CacheSweeper periodically purges expired verification verdicts.
// Sweep failures are logged and never reach live traffic.
type CacheSweeper struct {
	cache    ExpiredDeleter
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCacheSweeper creates a sweeper running every interval.
func NewCacheSweeper(cache ExpiredDeleter, interval time.Duration, logger *slog.Logger) *CacheSweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheSweeper{
		cache:    cache,
		interval: interval,
		timeout:  time.Minute,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "cache_sweeper")),
	}
}

// Start launches the sweep loop. The first sweep runs after one interval.
func (s *CacheSweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepOnce(ctx)
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight sweep.
func (s *CacheSweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// SweepOnce deletes expired entries and reports how many were removed.
func (s *CacheSweeper) SweepOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.cache.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Warn("verification cache sweep failed", slog.String("error", err.Error()))
		return 0
	}
	s.logger.Info("verification cache swept", slog.Int64("deleted", n))
	return n
}
