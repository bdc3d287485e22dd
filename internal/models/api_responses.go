// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

// Package models holds the wire types shared by the HTTP API.
package models

import (
	"time"

	"github.com/tomtom215/genrematch/internal/recommend"
)

// APIResponse is the envelope of every JSON response.
//
// Status is "success" (see Data) or "error" (see Error).
//
//	{
//	  "status": "success",
//	  "data": {"query": {...}, "items": [...], "accuracy": 42},
//	  "metadata": {"timestamp": "2026-01-02T12:00:00Z", "query_time_ms": 1}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable code plus a human message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RecommendationsData is the payload of GET /api/v1/recommendations.
type RecommendationsData struct {
	Query    recommend.Movie            `json:"query"`
	Items    []recommend.Recommendation `json:"items"`
	Count    int                        `json:"count"`
	Accuracy int                        `json:"accuracy"`
}

// SearchData is the payload of GET /api/v1/movies/search.
type SearchData struct {
	Query  string            `json:"query"`
	Movies []recommend.Movie `json:"movies"`
	Count  int               `json:"count"`
}

// FeaturesData is the payload of GET /api/v1/movies/{movieID}/features.
type FeaturesData struct {
	Movie    recommend.Movie        `json:"movie"`
	Features []recommend.TermWeight `json:"features"`
}

// HealthData is the payload of GET /health.
type HealthData struct {
	Status string          `json:"status"`
	Engine recommend.Stats `json:"engine"`
	Cache  *CacheStats     `json:"cache,omitempty"`
	Uptime string          `json:"uptime"`
}

// CacheStats reports the recommendation response cache. Omitted when the
// cache is disabled.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}
