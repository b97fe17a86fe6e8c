package services

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically closes submissions whose time limit expired while no
// client was around to finalize them. Each run is independent; a failed
// sweep leaves the submissions for the next one.
type Sweeper struct {
	session  SessionService
	logger   *slog.Logger
	interval time.Duration
}

func NewSweeper(session SessionService, logger *slog.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{
		session:  session,
		logger:   logger,
		interval: interval,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("submission sweeper started", "interval", s.interval)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("submission sweeper stopped")
				return
			case <-ticker.C:
				s.runSweep(ctx)
			}
		}
	}()
}

func (s *Sweeper) runSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	if _, err := s.session.SweepExpired(sweepCtx); err != nil {
		s.logger.Error("submission sweep failed", "error", err)
	}
}
