// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package health runs named checks and reports them over HTTP.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
)

var errDuplicateCheck = errors.New("duplicate health check")

// Checker reports its state. A non-nil error marks the check failing.
type Checker interface {
	HealthCheck(context.Context) (interface{}, error)
}

type CheckerFunc func(context.Context) (interface{}, error)

func (f CheckerFunc) HealthCheck(ctx context.Context) (interface{}, error) {
	return f(ctx)
}

// Result is the outcome of one check.
type Result struct {
	Details   interface{}   `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// Report is the outcome of every check.
type Report struct {
	Checks  map[string]Result `json:"checks"`
	Healthy bool              `json:"healthy"`
}

type Health struct {
	log log.Logger

	lock   sync.RWMutex
	checks map[string]Checker

	// failingChecks keeps track of the number of checks failing
	failingChecks prometheus.Gauge
}

func New(log log.Logger, registerer prometheus.Registerer) (*Health, error) {
	failing := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "diamond",
		Name:      "checks_failing",
		Help:      "number of currently failing health checks",
	})
	if err := registerer.Register(failing); err != nil {
		return nil, err
	}
	return &Health{
		log:           log,
		checks:        make(map[string]Checker),
		failingChecks: failing,
	}, nil
}

func (h *Health) Register(name string, checker Checker) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	if _, ok := h.checks[name]; ok {
		return fmt.Errorf("%w: %q", errDuplicateCheck, name)
	}
	h.checks[name] = checker
	return nil
}

// Report runs every check in name order.
func (h *Health) Report(ctx context.Context) Report {
	h.lock.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	checks := make(map[string]Checker, len(h.checks))
	for name, c := range h.checks {
		checks[name] = c
	}
	h.lock.RUnlock()
	sort.Strings(names)

	report := Report{
		Checks:  make(map[string]Result, len(names)),
		Healthy: true,
	}
	failing := 0
	for _, name := range names {
		start := time.Now()
		details, err := checks[name].HealthCheck(ctx)
		result := Result{
			Details:   details,
			Timestamp: start,
			Duration:  time.Since(start),
		}
		if err != nil {
			result.Error = err.Error()
			report.Healthy = false
			failing++
			h.log.Warn("health check failing",
				log.String("check", name),
				log.Err(err),
			)
		}
		report.Checks[name] = result
	}
	h.failingChecks.Set(float64(failing))
	return report
}

// ServeHTTP writes the report as JSON with status 503 if any check fails.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := h.Report(r.Context())
	w.Header().Set("Content-Type", "application/json")
	if !report.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.log.Debug("failed to write health report", log.Err(err))
	}
}
