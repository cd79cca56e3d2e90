// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var errBroken = errors.New("broken")

func TestReport(t *testing.T) {
	require := require.New(t)

	h, err := New(log.NewNoOpLogger(), prometheus.NewRegistry())
	require.NoError(err)

	require.NoError(h.Register("ok", CheckerFunc(func(context.Context) (interface{}, error) {
		return "fine", nil
	})))
	report := h.Report(context.Background())
	require.True(report.Healthy)
	require.Equal("fine", report.Checks["ok"].Details)
	require.Zero(testutil.ToFloat64(h.failingChecks))

	require.NoError(h.Register("broken", CheckerFunc(func(context.Context) (interface{}, error) {
		return nil, errBroken
	})))
	err = h.Register("broken", CheckerFunc(func(context.Context) (interface{}, error) {
		return nil, nil
	}))
	require.ErrorIs(err, errDuplicateCheck)

	report = h.Report(context.Background())
	require.False(report.Healthy)
	require.Equal(errBroken.Error(), report.Checks["broken"].Error)
	require.Empty(report.Checks["ok"].Error)
	require.Equal(1.0, testutil.ToFloat64(h.failingChecks))
}

func TestServeHTTP(t *testing.T) {
	require := require.New(t)

	h, err := New(log.NewNoOpLogger(), prometheus.NewRegistry())
	require.NoError(err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(http.StatusOK, w.Code)

	require.NoError(h.Register("broken", CheckerFunc(func(context.Context) (interface{}, error) {
		return nil, errBroken
	})))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(http.StatusServiceUnavailable, w.Code)

	var report Report
	require.NoError(json.Unmarshal(w.Body.Bytes(), &report))
	require.False(report.Healthy)
	require.Contains(report.Checks, "broken")
}
