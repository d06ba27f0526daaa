package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/jwt-demo/internal/observability"
)

func TestMetricsReporter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	metrics := observability.NewMetrics()
	metrics.RecordAuthOutcome("login_succeeded", "")

	ctx, cancel := context.WithCancel(context.Background())
	done := StartMetricsReporter(ctx, metrics, zap.New(core), 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return logs.FilterMessage("metrics").Len() > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reporter did not stop")
	}

	entry := logs.FilterMessage("metrics").All()[0]
	auth, ok := entry.ContextMap()["auth"].(map[string]int64)
	require.True(t, ok)
	require.Equal(t, int64(1), auth["login_succeeded"])
}

func TestMetricsReporterDisabled(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	done := StartMetricsReporter(context.Background(), observability.NewMetrics(), zap.New(core), 0)
	select {
	case <-done:
	default:
		t.Fatal("disabled reporter should be stopped")
	}
	require.Zero(t, logs.Len())
}
