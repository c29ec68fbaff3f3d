package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersExposed(t *testing.T) {
	before := testutil.ToFloat64(AlertsThrottledTotal)
	AlertsThrottledTotal.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(AlertsThrottledTotal))

	TransitionsTotal.WithLabelValues("safe", "exit").Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "safekids_geofence_transitions_total"))
}
