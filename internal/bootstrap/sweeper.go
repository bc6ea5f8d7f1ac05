package bootstrap

import (
	"context"
	"time"

	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"go.uber.org/zap"
)

// SweepIdempotencyKeys deletes expired idempotency keys every interval until
// ctx ends.
func SweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, every time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil && ctx.Err() == nil {
				log.Warn("failed to delete expired idempotency keys", zap.Error(err))
			}
		}
	}
}

// SweepIdempotencyKeys runs the key sweeper with the configured interval
func (a *App) SweepIdempotencyKeys(ctx context.Context) {
	SweepIdempotencyKeys(ctx, a.Idempotency, a.Config.Idempotency.SweepInterval, a.Log)
}
