package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

// OrderMetrics holds every order lifecycle metric vector.
type OrderMetrics struct {
	OrdersCreatedTotal       *prometheus.CounterVec
	OrdersCreatedAmountTotal *prometheus.CounterVec

	OrderTransitionsTotal *prometheus.CounterVec
	OrderErrorsTotal      *prometheus.CounterVec

	ProofUploadsTotal       *prometheus.CounterVec
	ProofVerificationsTotal *prometheus.CounterVec
	VerificationScore       *prometheus.HistogramVec
	VerificationDuration    *prometheus.HistogramVec

	NotificationsTotal        *prometheus.CounterVec
	NotificationAttemptsTotal prometheus.Counter
}

func NewOrderMetrics() *OrderMetrics {
	return &OrderMetrics{
		OrdersCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Total number of orders created",
			},
			[]string{"store_id", "currency"},
		),
		OrdersCreatedAmountTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_amount_total",
				Help: "Total amount of created orders",
			},
			[]string{"store_id", "currency"},
		),
		OrderTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transitions_total",
				Help: "Committed order status transitions",
			},
			[]string{"from", "to", "actor"},
		),
		OrderErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_errors_total",
				Help: "Order operation failures by kind",
			},
			[]string{"operation", "kind"},
		),
		ProofUploadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proof_uploads_total",
				Help: "Payment proof uploads by result",
			},
			[]string{"result"},
		),
		ProofVerificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proof_verifications_total",
				Help: "Proof scoring runs by outcome",
			},
			[]string{"outcome"},
		),
		VerificationScore: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proof_verification_score",
				Help:    "Confidence score distribution",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
			[]string{"outcome"},
		),
		VerificationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proof_verification_duration_seconds",
				Help:    "Proof scoring duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		NotificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Notification deliveries by template and result",
			},
			[]string{"template", "result"},
		),
		NotificationAttemptsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notification_attempts_total",
				Help: "Individual delivery attempts including retries",
			},
		),
	}
}

func (m *OrderMetrics) RecordOrderCreated(order *domain.Order) {
	if m == nil {
		return
	}
	m.OrdersCreatedTotal.WithLabelValues(order.StoreID, order.Currency).Inc()
	m.OrdersCreatedAmountTotal.WithLabelValues(order.StoreID, order.Currency).Add(order.TotalAmount)
}

func (m *OrderMetrics) RecordTransition(from, to domain.OrderStatus, actor string) {
	if m == nil {
		return
	}
	m.OrderTransitionsTotal.WithLabelValues(string(from), string(to), actor).Inc()
}

func (m *OrderMetrics) RecordOrderError(operation, kind string) {
	if m == nil {
		return
	}
	m.OrderErrorsTotal.WithLabelValues(operation, kind).Inc()
}

func (m *OrderMetrics) RecordVerification(outcome string, score float64, seconds float64) {
	if m == nil {
		return
	}
	m.ProofVerificationsTotal.WithLabelValues(outcome).Inc()
	m.VerificationScore.WithLabelValues(outcome).Observe(score)
	m.VerificationDuration.WithLabelValues(outcome).Observe(seconds)
}

func (m *OrderMetrics) RecordProofUpload(result string) {
	if m == nil {
		return
	}
	m.ProofUploadsTotal.WithLabelValues(result).Inc()
}

func (m *OrderMetrics) RecordNotification(template domain.NotificationTemplate, delivered bool, attempts int) {
	if m == nil {
		return
	}
	result := "delivered"
	if !delivered {
		result = "failed"
	}
	m.NotificationsTotal.WithLabelValues(string(template), result).Inc()
	m.NotificationAttemptsTotal.Add(float64(attempts))
}
