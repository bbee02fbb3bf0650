package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	catalogRequests *prometheus.CounterVec
	catalogTracks   prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tunebox",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		catalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tunebox",
			Name:      "catalog_requests_total",
			Help:      "Catalog listings by result.",
		}, []string{"result"}),
		catalogTracks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tunebox",
			Name:      "catalog_tracks",
			Help:      "Tracks returned by the last successful listing.",
		}),
	}
	m.registry.MustRegister(m.requests, m.catalogRequests, m.catalogTracks)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
