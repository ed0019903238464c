package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.ObserveGate(DecisionRejected, "expired")
	m.ObserveGate(DecisionRejected, "expired")
	m.ObserveGate(DecisionVerified, "")
	m.ObserveLogin(LoginFailed)

	require.Equal(t, 2.0, testutil.ToFloat64(m.gateDecisions.WithLabelValues(DecisionRejected, "expired")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.gateDecisions.WithLabelValues(DecisionVerified, "")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues(LoginFailed)))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `auth_gate_decisions_total{decision="rejected",reason="expired"} 2`)
	require.Contains(t, string(body), `auth_logins_total{result="failed"} 1`)
}

func TestMetrics_Independent(t *testing.T) {
	first, second := New(), New()

	first.ObserveLogin(LoginSucceeded)

	require.Equal(t, 1.0, testutil.ToFloat64(first.logins.WithLabelValues(LoginSucceeded)))
	require.Equal(t, 0.0, testutil.ToFloat64(second.logins.WithLabelValues(LoginSucceeded)))
}
