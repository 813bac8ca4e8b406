package cli

import (
	"context"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/matehops/mateh/internal/baserow"
	"github.com/matehops/mateh/internal/config"
	"github.com/matehops/mateh/internal/logging"
	"github.com/matehops/mateh/internal/lookup"
	"github.com/matehops/mateh/internal/schema"
	"github.com/matehops/mateh/internal/sync"
)

// ServiceBuilder returns a ready sync service plus a cleanup releasing
// its connections. Commands call it once and defer the cleanup.
type ServiceBuilder func(ctx context.Context, opts *RootOptions) (*sync.Service, func(), error)

// buildService is the production wiring: .env overrides, environment
// configuration, Baserow tables, column schema and whatever lookup
// engines are configured.
func buildService(ctx context.Context, opts *RootOptions) (*sync.Service, func(), error) {
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "configuration", err)
	}

	level := cfg.Logging.Level
	if opts.Verbose {
		level = "debug"
	}
	logging.Setup(level, cfg.Logging.Format)

	sc, err := schema.Load(cfg.Schema.Path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "column schema", err)
	}

	client := baserow.NewClient(cfg.Baserow.BaseURL, cfg.Baserow.Token)
	tables := sync.Tables{
		Activists:     client.Table(cfg.Baserow.ActivistsTableID),
		Registrations: client.Table(cfg.Baserow.RegistrationsTableID),
		Recruitment:   client.Table(cfg.Baserow.RecruitmentTableID),
	}

	deps, cleanup, err := buildDeps(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	return sync.New(tables, sc, deps, slog.Default()), cleanup, nil
}

// buildDeps opens the configured lookup engines. Each is optional; an
// unset variable just leaves the dependency nil and the jobs that need
// it degrade the way the service defines.
func buildDeps(ctx context.Context, cfg *config.Config) (sync.Deps, func(), error) {
	var deps sync.Deps
	var closers []func()

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Engines.RishumonURL != "" {
		deps.Rishumon = lookup.NewRishumon(cfg.Engines.RishumonURL, cfg.Engines.RishumonAPIKey)
	}

	if cfg.Engines.ElectorDSN != "" {
		elector, err := lookup.NewElector(ctx, cfg.Engines.ElectorDSN)
		if err != nil {
			cleanup()
			return sync.Deps{}, nil, WrapExitError(ExitCommandError, "connect voter registry", err)
		}
		closers = append(closers, elector.Close)
		deps.Elector = elector
	}

	if cfg.Engines.PhoneDBPath != "" {
		phones, err := lookup.OpenPhoneDB(cfg.Engines.PhoneDBPath)
		if err != nil {
			cleanup()
			return sync.Deps{}, nil, WrapExitError(ExitCommandError, "open phone database", err)
		}
		closers = append(closers, func() { _ = phones.Close() })
		deps.PhoneDB = phones
	}

	return deps, cleanup, nil
}
