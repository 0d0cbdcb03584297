package usecase

import (
	"context"
	"log/slog"
	"time"
)

// StartSweeper launches a background loop that prunes expired codes, keeping
// the table bounded even when verifies never touch stale rows. The returned
// stop function cancels the loop and is safe to call more than once.
func (s *Usecase) StartSweeper(ctx context.Context) (stop func()) {
	interval := s.cfg.GetMinute("modules.otp.sweep_interval_minutes")
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	sweepCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s.goroutine.Go(sweepCtx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.sweepOnce(ctx)
			}
		}
	})

	return cancel
}

func (s *Usecase) sweepOnce(ctx context.Context) {
	ctx, span := s.startSpan(ctx, "sweepOnce")
	defer span.End()

	removed, err := s.repoDB.DeleteExpiredCodes(ctx, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to sweep expired codes", "error", err)
		return
	}

	if removed > 0 {
		slog.InfoContext(ctx, "swept expired codes", "removed", removed)
	}
}
