// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

// Package metrics provides Prometheus instrumentation for the API surface,
// the recommendation engine, and the popularity refresher.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation engine metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"}, // "hybrid", "fallback", "cold", "error"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end recommendation pipeline duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_results_count",
			Help:    "Number of events returned per recommendation request",
			Buckets: []float64{0, 1, 2, 5, 10, 15, 20},
		},
	)

	// Popularity refresher metrics
	PopularityRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "popularity_refreshes_total",
			Help: "Total number of popularity refresh runs",
		},
		[]string{"result"}, // "success", "error"
	)

	PopularityRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "popularity_refresh_duration_seconds",
			Help:    "Popularity refresh duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PopularityLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "popularity_last_success_timestamp",
			Help: "Unix timestamp of the last successful popularity refresh",
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records one recommendation request.
func RecordRecommendation(outcome string, results int, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	RecommendationResults.Observe(float64(results))
}

// RecordPopularityRefresh records one refresh run.
func RecordPopularityRefresh(duration time.Duration, err error) {
	PopularityRefreshDuration.Observe(duration.Seconds())
	if err != nil {
		PopularityRefreshes.WithLabelValues("error").Inc()
		return
	}
	PopularityRefreshes.WithLabelValues("success").Inc()
	PopularityLastSuccess.Set(float64(time.Now().Unix()))
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
