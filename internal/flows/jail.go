package flows

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/freestreet/internal/dependencies/clock"
	"github.com/mcoot/freestreet/internal/model"
)

// SweepJail releases every online participant whose jail term has run out
func (e *Engine) SweepJail(ctx context.Context) error {
	var sweepErr error
	e.registry.Exclusive(func() {
		var online []model.ID
		for _, p := range e.registry.List() {
			if p.Authenticated() {
				online = append(online, p.Profile)
			}
		}
		if len(online) == 0 {
			return
		}

		released, err := e.police.ReleaseDue(ctx, online)
		for _, id := range released {
			e.notifyProfile(id, "Your jail term is over. You are free to go.")
		}
		sweepErr = err
	})
	return sweepErr
}

// RunJailSweeper calls SweepJail every interval until ctx is done
func (e *Engine) RunJailSweeper(ctx context.Context, clk clock.Clock, interval time.Duration) {
	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if err := e.SweepJail(ctx); err != nil {
				e.logger.Error("jail sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}
