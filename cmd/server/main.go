package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/matehops/mateh/internal/baserow"
	"github.com/matehops/mateh/internal/config"
	"github.com/matehops/mateh/internal/logging"
	"github.com/matehops/mateh/internal/lookup"
	"github.com/matehops/mateh/internal/schema"
	"github.com/matehops/mateh/internal/sync"
	"github.com/matehops/mateh/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"scheduler_enabled", cfg.Scheduler.Enabled,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Column mapping of the base; fails fast on a renamed column
	sc, err := schema.Load(cfg.Schema.Path)
	if err != nil {
		slog.Error("failed to load column schema", "error", err)
		os.Exit(1)
	}

	client := baserow.NewClient(cfg.Baserow.BaseURL, cfg.Baserow.Token)
	tables := sync.Tables{
		Activists:     client.Table(cfg.Baserow.ActivistsTableID),
		Registrations: client.Table(cfg.Baserow.RegistrationsTableID),
		Recruitment:   client.Table(cfg.Baserow.RecruitmentTableID),
	}
	slog.Info("baserow tables bound",
		"activists", cfg.Baserow.ActivistsTableID,
		"registrations", cfg.Baserow.RegistrationsTableID,
		"recruitment", cfg.Baserow.RecruitmentTableID,
	)

	ctx := context.Background()

	// Lookup engines are optional; jobs that need a missing one degrade
	// per the service's rules.
	var deps sync.Deps
	if cfg.Engines.RishumonURL != "" {
		deps.Rishumon = lookup.NewRishumon(cfg.Engines.RishumonURL, cfg.Engines.RishumonAPIKey)
		slog.Info("population registry engine enabled", "url", cfg.Engines.RishumonURL)
	} else {
		slog.Info("population registry engine disabled")
	}

	if cfg.Engines.ElectorDSN != "" {
		elector, err := lookup.NewElector(ctx, cfg.Engines.ElectorDSN)
		if err != nil {
			slog.Error("failed to connect to voter registry", "error", err)
			os.Exit(1)
		}
		defer elector.Close()
		deps.Elector = elector
		slog.Info("voter registry engine enabled")
	} else {
		slog.Info("voter registry engine disabled")
	}

	if cfg.Engines.PhoneDBPath != "" {
		phones, err := lookup.OpenPhoneDB(cfg.Engines.PhoneDBPath)
		if err != nil {
			slog.Error("failed to open phone database", "error", err)
			os.Exit(1)
		}
		defer phones.Close()
		deps.PhoneDB = phones
		slog.Info("phone database enabled", "path", cfg.Engines.PhoneDBPath)
	} else {
		slog.Info("phone database disabled")
	}

	// Create service and server
	service := sync.New(tables, sc, deps, slog.Default())
	server := web.NewServer(service, cfg)

	// Cancellable context for the job scheduler
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	if cfg.Scheduler.Enabled {
		go service.RunScheduled(jobCtx, cfg.Scheduler.Interval, cfg.Scheduler.Jobs)
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop scheduled jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
