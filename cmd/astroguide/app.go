package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/astroguide/internal/account"
	"github.com/mark3labs/astroguide/internal/astro"
	"github.com/mark3labs/astroguide/internal/config"
	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/geocode"
	"github.com/mark3labs/astroguide/internal/intake"
	"github.com/mark3labs/astroguide/internal/logger"
	"github.com/mark3labs/astroguide/internal/nats"
	"github.com/mark3labs/astroguide/internal/resolver"
)

// app holds the collaborators built from configuration. Clients are
// constructed once here and injected everywhere else.
type app struct {
	cfg       *config.Config
	collector *intake.Collector
	resolver  *resolver.Resolver

	// Set only when accounts are enabled.
	gateway *account.Gateway
	local   *nats.Local
	pg      *account.PGStore
}

// loadConfig loads configuration and applies root flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if rootFlags.calcURL != "" {
		cfg.CalcURL = rootFlags.calcURL
	}
	if rootFlags.dataDir != "" {
		cfg.DataDir = rootFlags.dataDir
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}
	return cfg, nil
}

// openApp wires every collaborator. Account storage is opened only when a
// backend is configured.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	calc := astro.NewClient(cfg.CalcURL, cfg.Timeout())
	geo := geocode.NewClient(cfg.GeocodeURL, cfg.GeocodeToken, cfg.Timeout())
	a := &app{
		cfg:       cfg,
		collector: intake.NewCollector(geo, calc),
		resolver:  resolver.New(calc),
	}

	if !cfg.AccountsEnabled() {
		logger.Info("accounts disabled: no backend configured")
		return a, nil
	}

	if err := a.openAccounts(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) openAccounts(ctx context.Context) error {
	local, err := nats.Open(a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open local state: %w", err)
	}
	a.local = local

	sessions, err := account.NewKVSessionStore(ctx, local.JS)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	var readings account.ReadingStore
	switch a.cfg.ReadingsStore {
	case config.StorePostgres:
		pg, err := account.OpenPGStore(ctx, a.cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		a.pg = pg
		readings = pg
	default:
		readings = account.NewRESTStore(a.cfg.BackendURL, a.cfg.BackendKey, a.cfg.Timeout())
	}

	auth := account.NewAuthClient(a.cfg.BackendURL, a.cfg.BackendKey, a.cfg.Timeout())
	a.gateway = account.NewGateway(auth, sessions, readings, a.collector)
	logger.Debug("accounts enabled (store: %s)", a.cfg.ReadingsStore)
	return nil
}

// requireAccounts fails with a configuration error when no backend is set.
func (a *app) requireAccounts() error {
	if a.gateway == nil {
		return ierr.New(ierr.KindConfiguration, "accounts",
			"accounts are not configured: set backend_url and backend_key (see 'astroguide setup')")
	}
	return nil
}

func (a *app) close() {
	if a.pg != nil {
		a.pg.Close()
	}
	if a.local != nil {
		if err := a.local.Close(); err != nil {
			logger.Warn("closing local state: %v", err)
		}
	}
}
