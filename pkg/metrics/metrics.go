package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LocationReportsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "safekids_location_reports_total",
		Help: "Total number of accepted location reports",
	})
	EvaluationDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "safekids_geofence_evaluation_duration_ms",
		Help:    "Geofence evaluation duration per location report in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	EvaluationErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "safekids_geofence_evaluation_errors_total",
		Help: "Total number of per-geofence evaluation failures",
	})
	TransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safekids_geofence_transitions_total",
		Help: "Total number of detected geofence transitions",
	}, []string{"zone_type", "action"})
	AlertsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safekids_geofence_alerts_total",
		Help: "Total number of alert-worthy transitions that were delivered",
	}, []string{"zone_type", "action"})
	AlertsThrottledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "safekids_geofence_alerts_throttled_total",
		Help: "Total number of alert-worthy transitions suppressed by the throttle",
	})
	SideEffectFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safekids_alert_side_effect_failures_total",
		Help: "Total number of failed alert side effects",
	}, []string{"effect"})
	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safekids_notifications_total",
		Help: "Push notifications by result",
	}, []string{"result"})
	RealtimeEmitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safekids_realtime_emits_total",
		Help: "Realtime emits by result",
	}, []string{"result"})
	GeocodeLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safekids_geocode_lookups_total",
		Help: "Reverse geocoding lookups by source (memory, redis, nominatim, fallback)",
	}, []string{"source"})
	GeocodeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "safekids_geocode_duration_ms",
		Help:    "Nominatim request duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000},
	})
	RetentionDeletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safekids_retention_deleted_total",
		Help: "Rows removed by the retention loop",
	}, []string{"table"})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safekids_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "status"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "safekids_http_rate_limited_total",
		Help: "Requests rejected by the per-caller rate limiter",
	})
)

func init() {
	prometheus.MustRegister(LocationReportsTotal)
	prometheus.MustRegister(EvaluationDurationMs)
	prometheus.MustRegister(EvaluationErrorsTotal)
	prometheus.MustRegister(TransitionsTotal)
	prometheus.MustRegister(AlertsTotal)
	prometheus.MustRegister(AlertsThrottledTotal)
	prometheus.MustRegister(SideEffectFailuresTotal)
	prometheus.MustRegister(NotificationsTotal)
	prometheus.MustRegister(RealtimeEmitsTotal)
	prometheus.MustRegister(GeocodeLookupsTotal)
	prometheus.MustRegister(GeocodeDurationMs)
	prometheus.MustRegister(RetentionDeletedTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(RateLimitedTotal)
}

func Handler() http.Handler { return promhttp.Handler() }
