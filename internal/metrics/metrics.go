// Copyright 2024 The rainbow-bridge-sub000 Authors
// This file is part of the rainbow-bridge-sub000 library.
//
// The rainbow-bridge-sub000 library is free software: you can redistribute it
// and/or modify it under the terms of the GNU Lesser General Public License
// as published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// The rainbow-bridge-sub000 library is distributed in the hope that it will
// be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.

// Package metrics exports the light client's operational counters and
// gauges over Prometheus (spec.md §9 supplemented observability). The
// teacher's own metrics/prometheus bridge converts its custom registry
// into Prometheus's text exposition format; since both engines here are
// small and single-purpose, this package skips that intermediate
// registry and registers prometheus.Collectors directly, per the
// ecosystem's own client_golang library.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is the full set of metrics both engines and the client
// facade report against. Nil-safe: a nil *Collector accepts every method
// call as a no-op, so callers never need to guard metrics-disabled
// configurations with conditionals (spec.md §9 "Non-goals" excludes a
// dashboard, not instrumentation itself).
type Collector struct {
	registry *prometheus.Registry

	headersAdded      *prometheus.CounterVec
	updatesSubmitted  *prometheus.CounterVec
	operationErrors   *prometheus.CounterVec
	finalizedHeight   *prometheus.GaugeVec
	unfinalizedDepth  prometheus.Gauge
	clientMode        prometheus.Gauge
}

// New builds a Collector registered under namespace (e.g. "lightclientd")
// on a fresh, private Prometheus registry.
func New(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		headersAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "headers_added_total",
			Help:      "Execution headers accepted, partitioned by engine.",
		}, []string{"engine"}),
		updatesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_submitted_total",
			Help:      "Beacon light-client updates submitted, partitioned by result.",
		}, []string{"result"}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Rejected write operations, partitioned by operation and error.",
		}, []string{"operation", "error"}),
		finalizedHeight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "finalized_height",
			Help:      "Most recently finalized block/slot number, partitioned by chain.",
		}, []string{"chain"}),
		unfinalizedDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unfinalized_execution_depth",
			Help:      "Number of execution headers currently staged between unfinalized_tail and unfinalized_head.",
		}),
		clientMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "beacon_client_mode",
			Help:      "0 = awaiting beacon update, 1 = awaiting execution headers.",
		}),
	}
	reg.MustRegister(
		c.headersAdded,
		c.updatesSubmitted,
		c.operationErrors,
		c.finalizedHeight,
		c.unfinalizedDepth,
		c.clientMode,
	)
	return c
}

// Handler serves the registry in Prometheus's text exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// HeaderAdded records one accepted execution header for engine ("pow" or
// "beacon").
func (c *Collector) HeaderAdded(engine string) {
	if c == nil {
		return
	}
	c.headersAdded.WithLabelValues(engine).Inc()
}

// UpdateSubmitted records one accepted or rejected beacon update.
func (c *Collector) UpdateSubmitted(result string) {
	if c == nil {
		return
	}
	c.updatesSubmitted.WithLabelValues(result).Inc()
}

// OperationFailed records a rejected write, keyed by the operation name
// and the sentinel error it returned.
func (c *Collector) OperationFailed(operation, errName string) {
	if c == nil {
		return
	}
	c.operationErrors.WithLabelValues(operation, errName).Inc()
}

// SetFinalizedHeight publishes the most recent finalized number for
// chain ("pow_tip", "beacon_slot", or "beacon_execution").
func (c *Collector) SetFinalizedHeight(chain string, height uint64) {
	if c == nil {
		return
	}
	c.finalizedHeight.WithLabelValues(chain).Set(float64(height))
}

// SetUnfinalizedDepth publishes the current execution-header descent's
// size (head number minus tail number, or 0 when no descent is active).
func (c *Collector) SetUnfinalizedDepth(depth uint64) {
	if c == nil {
		return
	}
	c.unfinalizedDepth.Set(float64(depth))
}

// SetClientMode publishes the beacon engine's current ClientMode as a
// gauge so dashboards can alert on a client stuck awaiting headers.
func (c *Collector) SetClientMode(mode byte) {
	if c == nil {
		return
	}
	c.clientMode.Set(float64(mode))
}
