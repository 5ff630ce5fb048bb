// Package metrics holds the Prometheus collectors shared by the auth and
// presence packages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fsdfinal"

type Metrics struct {
	Participants      prometheus.Gauge
	Broadcasts        prometheus.Counter
	SendFailures      prometheus.Counter
	CredentialsIssued prometheus.Counter
	AuthRejections    *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "presence",
			Name:      "participants",
			Help:      "Number of identities with an open chat channel.",
		}),
		Broadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "presence",
			Name:      "broadcasts_total",
			Help:      "Number of inbound chat messages fanned out.",
		}),
		SendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "presence",
			Name:      "send_failures_total",
			Help:      "Number of per-participant sends that failed and were dropped.",
		}),
		CredentialsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "credentials_issued_total",
			Help:      "Number of bearer credentials issued.",
		}),
		AuthRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "rejections_total",
			Help:      "Protected requests rejected by the auth middleware, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		m.Participants,
		m.Broadcasts,
		m.SendFailures,
		m.CredentialsIssued,
		m.AuthRejections,
	)

	return m
}

// Discard returns collectors that are not registered anywhere.
func Discard() *Metrics {
	return New(prometheus.NewRegistry())
}
