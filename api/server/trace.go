// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ http.Handler = (*tracedHandler)(nil)

type tracedHandler struct {
	h            http.Handler
	serveHTTPTag string
	tracer       trace.Tracer
}

// TraceHandler starts a span named "<name>.ServeHTTP" around every request
// served by h.
func TraceHandler(h http.Handler, name string, tracer trace.Tracer) http.Handler {
	return &tracedHandler{
		h:            h,
		serveHTTPTag: name + ".ServeHTTP",
		tracer:       tracer,
	}
}

func (h *tracedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), h.serveHTTPTag, trace.WithAttributes(
		attribute.String("method", r.Method),
		attribute.String("url", r.URL.Redacted()),
		attribute.String("proto", r.Proto),
		attribute.String("host", r.Host),
		attribute.String("remoteAddr", r.RemoteAddr),
	))
	defer span.End()

	h.h.ServeHTTP(w, r.WithContext(ctx))
}
