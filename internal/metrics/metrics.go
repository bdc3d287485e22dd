// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

// Package metrics exposes the Prometheus collectors for the recommendation
// pipeline and the HTTP API. Collectors are registered with the default
// registry through promauto and served by promhttp on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "genrematch"

// Build stage names used as the "stage" label.
const (
	StageLoad       = "load"
	StageVectorize  = "vectorize"
	StageSimilarity = "similarity"
	StageIndex      = "index"
)

// Recommendation outcomes used as the "outcome" label.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// Pipeline build metrics
	BuildStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_stage_duration_seconds",
			Help:      "Duration of each recommendation pipeline build stage in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"stage", "backend"},
	)

	BuildErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_errors_total",
			Help:      "Total number of failed pipeline builds by stage",
		},
		[]string{"stage"},
	)

	CorpusMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_movies",
			Help:      "Number of movies in the loaded corpus",
		},
	)

	VocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vocabulary_terms",
			Help:      "Number of terms in the fitted TF-IDF vocabulary",
		},
	)

	// Query metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Total number of recommendation queries by outcome",
		},
		[]string{"outcome"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_duration_seconds",
			Help:      "Latency of a single recommendation query in seconds",
			Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	RecommendResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_results",
			Help:      "Number of movies returned per successful query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "Number of API requests currently being served",
		},
	)

	ResponseCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_cache_lookups_total",
			Help:      "Recommendation response cache lookups by result",
		},
		[]string{"result"},
	)

	// Corpus reload metrics
	CorpusReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corpus_reloads_total",
			Help:      "Total number of corpus reload attempts by result",
		},
		[]string{"result"},
	)
)

// RecordBuildStage records the duration of one pipeline stage. A non-nil err
// also counts a build failure for that stage.
func RecordBuildStage(stage, backend string, duration time.Duration, err error) {
	BuildStageDuration.WithLabelValues(stage, backend).Observe(duration.Seconds())
	if err != nil {
		BuildErrors.WithLabelValues(stage).Inc()
	}
}

// SetCorpusStats publishes the corpus and vocabulary sizes of the active engine.
func SetCorpusStats(movies, terms int) {
	CorpusMovies.Set(float64(movies))
	VocabularySize.Set(float64(terms))
}

// RecordRecommendation records a finished query.
func RecordRecommendation(outcome string, results int, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(duration.Seconds())
	if outcome == OutcomeOK || outcome == OutcomeEmpty {
		RecommendResults.Observe(float64(results))
	}
}

// Outcome maps a query result to its outcome label. notFound reports whether
// err is the caller's not-found sentinel.
func Outcome(results int, err error, notFound func(error) bool) string {
	switch {
	case err == nil && results == 0:
		return OutcomeEmpty
	case err == nil:
		return OutcomeOK
	case notFound != nil && notFound(err):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordReload counts one corpus reload attempt.
func RecordReload(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	CorpusReloadsTotal.WithLabelValues(result).Inc()
}

// RecordCacheLookup counts one response cache lookup.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ResponseCacheTotal.WithLabelValues(result).Inc()
}
