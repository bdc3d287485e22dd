// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

/*
Package supervisor runs the long-lived services of `genrematch serve` under a
suture v4 supervisor tree.

	RootSupervisor ("genrematch")
	├── EngineSupervisor ("engine-layer")
	│   └── CorpusReloadService (if data.reload_interval > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's failure decay and backoff.
Supervisor events go to slog through sutureslog; cmd/genrematch bridges slog
to zerolog with logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, addr, timeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Service Interface

	type Service interface {
	    Serve(ctx context.Context) error
	}

Returning suture.ErrDoNotRestart stops the service for good, any other
return restarts it, and a canceled context must make Serve return promptly.

If shutdown hangs, UnstoppedServiceReport names the services that did not
stop within TreeConfig.ShutdownTimeout.
*/
package supervisor
