package obs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics groups Prometheus collectors for cart pricing.
type PricingMetrics struct {
	Calculations *prometheus.CounterVec
	Totals       *prometheus.HistogramVec
	ItemsAdded   prometheus.Counter
	Rejected     *prometheus.CounterVec
}

// NewPricingMetrics registers and returns pricing collectors. Total buckets are expressed in currency units.
func NewPricingMetrics(namespace string, buckets []float64, reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(buckets) == 0 {
		buckets = []float64{10, 25, 50, 100, 250, 500, 1000}
	} else {
		sort.Float64s(buckets)
	}
	m := &PricingMetrics{
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_total_calculations_total",
			Help:      "Number of cart totals calculated, by policy.",
		}, []string{"policy"}),
		Totals: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cart_total_amount",
			Help:      "Distribution of rounded cart totals.",
			Buckets:   buckets,
		}, []string{"policy"}),
		ItemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_added_total",
			Help:      "Units added to carts.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_add_item_rejected_total",
			Help:      "Rejected add item calls, by reason.",
		}, []string{"reason"}),
	}
	mustRegisterCollector(reg, m.Calculations, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.Calculations = v
		}
	})
	mustRegisterCollector(reg, m.Totals, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.HistogramVec); ok {
			m.Totals = v
		}
	})
	mustRegisterCollector(reg, m.ItemsAdded, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Counter); ok {
			m.ItemsAdded = v
		}
	})
	mustRegisterCollector(reg, m.Rejected, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.Rejected = v
		}
	})
	return m
}

// ObserveTotal records one calculated total.
func (m *PricingMetrics) ObserveTotal(policy string, total float64) {
	if m == nil {
		return
	}
	m.Calculations.WithLabelValues(policy).Inc()
	m.Totals.WithLabelValues(policy).Observe(total)
}

// ItemAdded records units accepted into a cart.
func (m *PricingMetrics) ItemAdded(qty int) {
	if m == nil || qty <= 0 {
		return
	}
	m.ItemsAdded.Add(float64(qty))
}

// ItemRejected records a refused add item call.
func (m *PricingMetrics) ItemRejected(reason string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(reason).Inc()
}

// ParseBucketsCSV converts a comma-separated list of bucket boundaries into floats.
func ParseBucketsCSV(csv string) []float64 {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			continue
		}
		if v <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register pricing metric: %w", err))
	}
}
