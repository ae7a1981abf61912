package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the order-flow collectors. Registration happens against the
// registerer passed in, so tests can use a private registry.
type Metrics struct {
	OrdersCreated        prometheus.Counter
	OrderFailures        *prometheus.CounterVec
	PaymentVerifications *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders successfully created.",
		}),
		OrderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_failures_total",
			Help: "Order creation failures by reason.",
		}, []string{"reason"}),
		PaymentVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_verifications_total",
			Help: "Payment verification attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.OrdersCreated, m.OrderFailures, m.PaymentVerifications)
	return m
}
