package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	paymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weddinglk_payments_total",
			Help: "Checkout attempts by payment method and resulting status.",
		},
		[]string{"method", "status"},
	)

	paymentAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weddinglk_payment_amount",
			Help:    "Requested payment amounts in booking currency.",
			Buckets: prometheus.ExponentialBuckets(1000, 2.5, 10),
		},
		[]string{"method"},
	)

	webhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weddinglk_payment_webhooks_total",
			Help: "Inbound provider notifications by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)
)

func ObservePayment(method, status string, amount float64) {
	paymentsTotal.WithLabelValues(method, status).Inc()
	paymentAmount.WithLabelValues(method).Observe(amount)
}

func ObserveWebhook(provider, outcome string) {
	webhooksTotal.WithLabelValues(provider, outcome).Inc()
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
