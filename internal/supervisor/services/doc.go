// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

/*
Package services provides suture.Service wrappers for the long-running parts
of `genrematch serve`.

  - HTTPServerService: the chi API server with graceful shutdown
  - CorpusReloadService: polls the corpus CSV and rebuilds the engine on change

Each wrapper implements suture's Service interface

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer so supervisor events name the service.
*/
package services
