// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

// Command genrematch recommends movies with genres similar to a title you
// type.
//
// At startup it reads the movie CSV (movieId, title, combined_genres), fits a
// TF-IDF model over the genre text and computes the similarity of every pair
// of movies. Three commands use the result:
//
//	genrematch                      interactive prompt (type 'exit' to quit)
//	genrematch recommend "Heat (1995)" -n 5
//	genrematch serve                HTTP API on server.host:server.port
//
// # Configuration
//
// Settings come from built-in defaults, then a YAML file (--config,
// CONFIG_PATH or ./config.yaml), then environment variables such as
// MOVIES_CSV, RECOMMEND_BACKEND, CHART_MODE and HTTP_PORT. A .env file in the
// working directory is merged into the environment first.
//
//	data:
//	  csv_path: combined_df.csv
//	  reload_interval: 0s
//	recommend:
//	  max_features: 1000
//	  default_top_n: 10
//	  self_exclusion: index   # or "position"
//	  backend: sparse         # or "dense"
//	  accuracy_divisor: 10
//	chart:
//	  mode: terminal          # off, terminal or png
//	  output_dir: charts
//
// Logs go to stderr; the prompt and results go to stdout.
//
// # Signal Handling
//
// serve shuts down gracefully on SIGINT and SIGTERM. The interactive loop
// stops on 'exit' or end of input; SIGINT terminates it at once.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
