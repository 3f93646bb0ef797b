package observability

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Authorization metrics
	AuthzDecisionsTotal *prometheus.CounterVec

	// Invitation metrics
	InvitesIssuedTotal    *prometheus.CounterVec
	InvitesResolvedTotal  *prometheus.CounterVec
	MailDeliveriesTotal   *prometheus.CounterVec
	DeliveryRecordsPurged prometheus.Counter

	// Database metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge

	// Business metrics
	SignupsTotal prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tack_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tack_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuthzDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tack_authz_decisions_total",
				Help: "Authorization decisions by capability and outcome",
			},
			[]string{"capability", "outcome"},
		),
		InvitesIssuedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tack_invites_issued_total",
				Help: "Invitation tokens issued by resource kind",
			},
			[]string{"kind"},
		),
		InvitesResolvedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tack_invites_resolved_total",
				Help: "Invitation outcomes by resource kind and result",
			},
			[]string{"kind", "result"},
		),
		MailDeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tack_mail_deliveries_total",
				Help: "Invitation emails by delivery status",
			},
			[]string{"status"},
		),
		DeliveryRecordsPurged: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tack_delivery_records_purged_total",
				Help: "Delivery records removed by the maintenance scheduler",
			},
		),
		DBConnectionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tack_db_connections_active",
				Help: "Number of active database connections",
			},
		),
		DBConnectionsIdle: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tack_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		SignupsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tack_signups_total",
				Help: "Total number of successful signups",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthzDecisionsTotal,
		m.InvitesIssuedTotal,
		m.InvitesResolvedTotal,
		m.MailDeliveriesTotal,
		m.DeliveryRecordsPurged,
		m.DBConnectionsActive,
		m.DBConnectionsIdle,
		m.SignupsTotal,
	)
	return m
}

// Handler returns the HTTP handler serving the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one completed request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// CollectDBStats copies connection pool gauges from db
func (m *Metrics) CollectDBStats(db *sql.DB) {
	stats := db.Stats()
	m.DBConnectionsActive.Set(float64(stats.InUse))
	m.DBConnectionsIdle.Set(float64(stats.Idle))
}
