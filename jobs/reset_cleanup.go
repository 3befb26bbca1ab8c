// Package jobs contains background maintenance loops.
package jobs

import (
	"context"
	"time"

	"campwild/logger"
	"campwild/repository"

	"go.uber.org/zap"
)

// StartResetTokenCleanup clears expired password-reset tokens on a fixed
// interval until ctx is cancelled.
func StartResetTokenCleanup(ctx context.Context, users repository.UserRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("reset token cleanup job started", zap.Duration("interval", interval))

	cleanup(ctx, users)

	for {
		select {
		case <-ctx.Done():
			logger.Info("reset token cleanup job stopped")
			return
		case <-ticker.C:
			cleanup(ctx, users)
		}
	}
}

func cleanup(ctx context.Context, users repository.UserRepository) {
	cleared, err := users.ClearExpiredResetTokens(ctx)
	if err != nil {
		logger.Error("failed to clear expired reset tokens", zap.Error(err))
		return
	}
	if cleared > 0 {
		logger.Debug("expired reset tokens cleared", zap.Int64("count", cleared))
	}
}
