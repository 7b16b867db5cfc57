package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics tracks the checkout funnel.
type StorefrontMetrics struct {
	ordersSubmitted *prometheus.CounterVec
	cartMutations   *prometheus.CounterVec
}

// NewStorefrontMetrics registers the funnel counters on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	ordersSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Orders handed off to WhatsApp.",
	}, []string{"delivery_type"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"operation"})
	reg.MustRegister(ordersSubmitted, cartMutations)
	return &StorefrontMetrics{
		ordersSubmitted: ordersSubmitted,
		cartMutations:   cartMutations,
	}
}

// IncOrderSubmitted increments the order counter for the delivery type.
func (s *StorefrontMetrics) IncOrderSubmitted(deliveryType string) {
	if s == nil || s.ordersSubmitted == nil {
		return
	}
	s.ordersSubmitted.WithLabelValues(normalizeLabel(deliveryType)).Inc()
}

// IncCartMutation increments the cart counter for the named operation.
func (s *StorefrontMetrics) IncCartMutation(operation string) {
	if s == nil || s.cartMutations == nil {
		return
	}
	s.cartMutations.WithLabelValues(normalizeLabel(operation)).Inc()
}

// PublisherMetrics records metadata for the outbox publisher loop.
type PublisherMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewPublisherMetrics registers the publisher metrics on the provided registerer.
func NewPublisherMetrics(reg prometheus.Registerer) *PublisherMetrics {
	if reg == nil {
		return &PublisherMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "publisher_batch_duration_seconds",
		Help:    "Duration of outbox publish batches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "publisher_events_published",
		Help: "Outbox events published successfully.",
	}, []string{"topic"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "publisher_events_failed",
		Help: "Outbox events that failed to publish.",
	}, []string{"topic"})
	reg.MustRegister(duration, success, failure)
	return &PublisherMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveBatch records the duration for one publish batch.
func (p *PublisherMetrics) ObserveBatch(topic string, elapsed time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(topic)).Observe(elapsed.Seconds())
}

// IncPublished increments the published counter for the topic.
func (p *PublisherMetrics) IncPublished(topic string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(topic)).Inc()
}

// IncFailed increments the failure counter for the topic.
func (p *PublisherMetrics) IncFailed(topic string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(topic)).Inc()
}
