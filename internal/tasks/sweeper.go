package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festmatch/internal/shared"
)

// Default sweep intervals: sessions hourly, tour cache every six hours.
const (
	DefaultSessionSweepInterval = time.Hour
	DefaultCacheSweepInterval   = 6 * time.Hour
)

// SessionSweep deletes expired sessions.
type SessionSweep interface {
	DeleteExpired(now time.Time) (int64, error)
}

// CacheSweep deletes expired tour-cache rows.
type CacheSweep interface {
	Sweep() (int64, error)
}

// Sweeper owns the periodic cleanup loops the server runs in the background.
type Sweeper struct {
	sessions        SessionSweep
	cache           CacheSweep
	sessionInterval time.Duration
	cacheInterval   time.Duration
	logger          *log.Logger
}

// NewSweeper creates a Sweeper; non-positive intervals get the defaults.
func NewSweeper(sessions SessionSweep, cache CacheSweep, sessionInterval, cacheInterval time.Duration, logger *log.Logger) *Sweeper {
	if sessionInterval <= 0 {
		sessionInterval = DefaultSessionSweepInterval
	}
	if cacheInterval <= 0 {
		cacheInterval = DefaultCacheSweepInterval
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Sweeper{
		sessions:        sessions,
		cache:           cache,
		sessionInterval: sessionInterval,
		cacheInterval:   cacheInterval,
		logger:          logger,
	}
}

// Run blocks, sweeping on both intervals until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	sessionTicker := time.NewTicker(s.sessionInterval)
	defer sessionTicker.Stop()
	cacheTicker := time.NewTicker(s.cacheInterval)
	defer cacheTicker.Stop()

	s.logger.Info("sweeper started",
		"session_interval", s.sessionInterval, "cache_interval", s.cacheInterval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-sessionTicker.C:
			s.SweepSessions()
		case <-cacheTicker.C:
			s.SweepCache()
		}
	}
}

// SweepSessions deletes expired sessions once. Errors are logged, not
// returned; a failed sweep retries on the next tick.
func (s *Sweeper) SweepSessions() {
	deleted, err := s.sessions.DeleteExpired(time.Now())
	if err != nil {
		s.logger.Error("session sweep failed", "err", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("swept sessions", "deleted", deleted)
	}
}

// SweepCache deletes expired tour-cache rows once.
func (s *Sweeper) SweepCache() {
	if _, err := s.cache.Sweep(); err != nil {
		s.logger.Error("tour cache sweep failed", "err", err)
	}
}
