package diag

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts submission outcomes
type Metrics struct {
	submissions *prometheus.CounterVec
	inFlight    prometheus.Gauge
	dropped     *prometheus.CounterVec
}

// NewMetrics creates and registers collectors in reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	res := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hello_form",
			Name:      "submissions_total",
			Help:      "Completed form submissions by outcome",
		}, []string{"outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hello_form",
			Name:      "requests_in_flight",
			Help:      "Greeting requests currently running",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hello_form",
			Name:      "submissions_dropped_total",
			Help:      "Submissions or results discarded by the submission policy",
		}, []string{"policy"}),
	}
	for _, c := range []prometheus.Collector{res.submissions, res.inFlight, res.dropped} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("can't register metric: %w", err)
		}
	}
	return res, nil
}
