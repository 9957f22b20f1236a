package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.Shots(3)
	m.Shots(1)
	m.Sync("ok")
	m.Sync("error")
	m.Sync("ok")
	m.Event("camera.added")

	assert.Equal(t, 4.0, testutil.ToFloat64(m.shots))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.syncs.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("camera.added")))
}

func TestHandlerExposesRequests(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/v1/cameras", "GET", 200, 12*time.Millisecond)
	m.RealtimeClients("websocket", 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)
	assert.True(t, strings.Contains(out, `instantbox_http_request_duration_milliseconds_count{code="200",method="GET",route="/api/v1/cameras"} 1`))
	assert.Contains(t, out, `instantbox_realtime_clients{transport="websocket"} 2`)
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Shots(1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.shots))
}
