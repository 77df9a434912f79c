package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTwice(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "timetrack_websocket_clients")
}

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET /api/stats", "GET", "200"))

	ObserveHTTP("GET /api/stats", "GET", 200, 15*time.Millisecond)
	ObserveHTTP("GET /api/stats", "GET", 200, 5*time.Millisecond)
	ObserveHTTP("", "GET", 404, time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(httpRequests.WithLabelValues("GET /api/stats", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("unmatched", "GET", "404")))
}

func TestRecordCounters(t *testing.T) {
	AddCreated("event", 10)
	AddCreated("event", 0)
	AddDeleted("user", 2)
	AddDeleted("user", -1)

	assert.Equal(t, 10.0, testutil.ToFloat64(recordsCreated.WithLabelValues("event")))
	assert.Equal(t, 2.0, testutil.ToFloat64(recordsDeleted.WithLabelValues("user")))
}

func TestWebsocketClients(t *testing.T) {
	SetWebsocketClients(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(wsClients))
	SetWebsocketClients(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(wsClients))
}
