// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

const (
	namespace = "diamond"

	outcomeLabel = "outcome"
	eventLabel   = "event"
)

var _ Metrics = (*metrics)(nil)

type Metrics interface {
	engine.Observer
	APIInterceptor
}

type metrics struct {
	txs        *prometheus.CounterVec
	txDuration *prometheus.HistogramVec
	events     *prometheus.CounterVec

	APIInterceptor
}

// New registers the host and API metrics on registerer.
func New(registerer prometheus.Registerer) (Metrics, error) {
	m := &metrics{
		txs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "txs_total",
				Help:      "number of transactions by outcome",
			},
			[]string{outcomeLabel},
		),
		txDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tx_duration_seconds",
				Help:      "time spent executing transactions",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{outcomeLabel},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "number of committed events by name",
			},
			[]string{eventLabel},
		),
	}

	interceptor, err := NewAPIInterceptor(registerer)
	errs := wrappers.Errs{Err: err}
	m.APIInterceptor = interceptor
	errs.Add(
		registerer.Register(m.txs),
		registerer.Register(m.txDuration),
		registerer.Register(m.events),
	)
	return m, errs.Err
}

// ObserveTransaction records a transaction that finished as kind, which is
// "Success" or the failure kind of its error.
func (m *metrics) ObserveTransaction(kind string, duration time.Duration) {
	m.txs.WithLabelValues(kind).Inc()
	m.txDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *metrics) ObserveEvent(name string) {
	m.events.WithLabelValues(name).Inc()
}
