// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

/*
Package middleware provides the HTTP middleware of the Genrematch API.

  - RequestID: reuses or generates X-Request-ID and stores it in the logging context
  - RequestLogger: one structured zerolog line per request
  - PrometheusMetrics: request counts, durations and in-flight gauge

All three use the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
