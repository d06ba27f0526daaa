package observability

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/login", http.MethodPost, http.StatusOK, time.Millisecond)
	m.RecordRequest("/login", http.MethodPost, http.StatusOK, time.Millisecond)
	m.RecordError("/secret", http.MethodGet, "UNAUTHORIZED")
	m.RecordAuthOutcome("token_rejected", "EXPIRED")
	m.RecordAuthOutcome("login_succeeded", "")

	snap := m.Snapshot()
	require.Equal(t, int64(2), snap.Requests["/login|POST|200"])
	require.Equal(t, int64(1), snap.Errors["/secret|GET|UNAUTHORIZED"])
	require.Equal(t, int64(1), snap.Auth["token_rejected|EXPIRED"])
	require.Equal(t, int64(1), snap.Auth["login_succeeded"])

	snap.Auth["login_succeeded"] = 100
	require.Equal(t, int64(1), m.Snapshot().Auth["login_succeeded"])
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", http.MethodGet, http.StatusOK, 0)
	m.RecordError("/", http.MethodGet, "X")
	m.RecordAuthOutcome("login_failed", "INVALID_CREDENTIALS")
	require.Empty(t, m.Snapshot().Auth)
}
