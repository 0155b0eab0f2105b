package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the custom Prometheus metrics of the HTTP surface
type Metrics struct {
	// WebSocket metrics
	WebSocketConnections prometheus.Gauge
	WebSocketMessages    *prometheus.CounterVec

	// Admin metrics
	AdminLogins      *prometheus.CounterVec
	CatalogMutations *prometheus.CounterVec
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// InitMetrics registers the metrics once and returns them. connManager backs
// the current connection gauge.
func InitMetrics(connManager *ConnectionManager) *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			// WebSocket active connections (gauge - can go up and down)
			WebSocketConnections: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "fgperfume_websocket_connections_active",
				Help: "Number of active WebSocket connections",
			}),

			WebSocketMessages: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "fgperfume_websocket_messages_total",
				Help: "Total number of WebSocket messages by type",
			}, []string{"type", "direction"}), // direction: "inbound" or "outbound"

			AdminLogins: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "fgperfume_admin_logins_total",
				Help: "Admin login attempts by result",
			}, []string{"result"}),

			CatalogMutations: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "fgperfume_catalog_mutations_total",
				Help: "Admin catalog changes by operation",
			}, []string{"operation"}),
		}

		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "fgperfume_websocket_connections_current",
				Help: "Current number of active WebSocket connections (from connection manager)",
			},
			func() float64 {
				if connManager != nil {
					return float64(connManager.Count())
				}
				return 0
			},
		))
	})
	return globalMetrics
}

// GetMetrics returns the global metrics instance, nil before InitMetrics
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordWebSocketConnect records a new WebSocket connection
func (m *Metrics) RecordWebSocketConnect() {
	if m == nil {
		return
	}
	m.WebSocketConnections.Inc()
}

// RecordWebSocketDisconnect records a WebSocket disconnection
func (m *Metrics) RecordWebSocketDisconnect() {
	if m == nil {
		return
	}
	m.WebSocketConnections.Dec()
}

// RecordWebSocketMessage records a WebSocket message
func (m *Metrics) RecordWebSocketMessage(msgType, direction string) {
	if m == nil {
		return
	}
	m.WebSocketMessages.WithLabelValues(msgType, direction).Inc()
}

// RecordAdminLogin records a login attempt: "success", "invalid" or "locked"
func (m *Metrics) RecordAdminLogin(result string) {
	if m == nil {
		return
	}
	m.AdminLogins.WithLabelValues(result).Inc()
}

// RecordCatalogMutation records an admin write
func (m *Metrics) RecordCatalogMutation(operation string) {
	if m == nil {
		return
	}
	m.CatalogMutations.WithLabelValues(operation).Inc()
}
