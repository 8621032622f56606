package service

import (
	"log/slog"
	"time"
)

// Pruner drops entries that are no longer needed and reports how many.
type Pruner interface {
	Prune() int
}

// HousekeepingService periodically prunes expired revocation entries so the
// in-memory set doesn't grow without bound.
type HousekeepingService struct {
	Revocations Pruner
	Logger      *slog.Logger
	Interval    time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to 10 minutes.
func NewHousekeepingService(revocations Pruner, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &HousekeepingService{
		Revocations: revocations,
		Logger:      logger,
		Interval:    interval,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start runs the cleanup loop in the background until Stop is called.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts the loop down and waits for an in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce()
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single cleanup pass.
func (s *HousekeepingService) RunOnce() int {
	removed := s.Revocations.Prune()
	if removed > 0 {
		s.Logger.Info("pruned expired revocations", "removed", removed)
	} else {
		s.Logger.Debug("housekeeping found nothing to prune")
	}
	return removed
}
