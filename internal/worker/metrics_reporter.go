package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/jwt-demo/internal/observability"
)

// StartMetricsReporter logs a metrics snapshot every interval until ctx is
// done. A non-positive interval disables reporting. The returned channel is
// closed once the reporter has stopped.
func StartMetricsReporter(ctx context.Context, metrics *observability.Metrics, logger *zap.Logger, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if metrics == nil || interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				report(metrics, logger)
				return
			case <-ticker.C:
				report(metrics, logger)
			}
		}
	}()
	return done
}

func report(metrics *observability.Metrics, logger *zap.Logger) {
	snap := metrics.Snapshot()
	logger.Info("metrics",
		zap.Any("requests", snap.Requests),
		zap.Any("errors", snap.Errors),
		zap.Any("auth", snap.Auth))
}
