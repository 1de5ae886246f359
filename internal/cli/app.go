package cli

import (
	"context"
	"errors"

	"github.com/01moynul/souq-catalog/internal/checkout"
	"github.com/01moynul/souq-catalog/internal/config"
	"github.com/01moynul/souq-catalog/internal/dispatch"
	"github.com/01moynul/souq-catalog/internal/kvstore"
	"github.com/01moynul/souq-catalog/internal/mirror"
	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/01moynul/souq-catalog/internal/reconcile"
	"github.com/01moynul/souq-catalog/internal/remote"
	"go.uber.org/zap"
)

// App is one client session: the mirror over its kv store, the server
// client, and the dispatcher that carries writes to it.
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Store    *mirror.Store
	Remote   *remote.Client
	Runner   *dispatch.Dispatcher // nil when offline
	Boot     *reconcile.Bootstrapper
	Checkout *checkout.Service
}

// NewApp wires a session. Offline sessions never contact the server.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger, offline bool) (*App, error) {
	// 1. --- Local storage ---
	kv, err := kvstore.Open(kvstore.Options{
		Driver:    cfg.Client.StoreDriver,
		Path:      cfg.Client.StorePath,
		RedisAddr: cfg.Client.RedisAddr,
		RedisDB:   cfg.Client.RedisDB,
		Prefix:    cfg.Client.RedisPrefix,
	})
	if err != nil {
		return nil, err
	}

	// 2. --- Server client and background propagation ---
	client := remote.New(cfg.Client.RemoteURL, cfg.Client.HTTPTimeout, log.Named("remote"))
	var (
		prop   mirror.Propagator
		runner *dispatch.Dispatcher
	)
	if !offline {
		runner = dispatch.New(dispatch.FireAndForget, log.Named("dispatch"))
		prop = reconcile.NewPropagator(ctx, client, runner)
	}

	// 3. --- Mirror and services ---
	store := mirror.New(kv, prop, log.Named("mirror"))
	return &App{
		Config:   cfg,
		Log:      log,
		Store:    store,
		Remote:   client,
		Runner:   runner,
		Boot:     reconcile.NewBootstrapper(store, client, log.Named("bootstrap")),
		Checkout: checkout.New(store, log.Named("checkout")),
	}, nil
}

// Close waits up to the drain timeout for pending server writes, then
// closes the store.
func (a *App) Close() error {
	var errs []error
	if a.Runner != nil {
		if err := a.Runner.Drain(a.Config.Client.DrainTimeout); err != nil {
			errs = append(errs, err)
		}
		st := a.Runner.Stats()
		a.Log.Debug("propagation finished",
			zap.Int64("dispatched", st.Dispatched),
			zap.Int64("succeeded", st.Succeeded),
			zap.Int64("failed", st.Failed),
		)
	}
	errs = append(errs, a.Store.Close())
	_ = a.Log.Sync()
	return errors.Join(errs...)
}

// lang is the visitor's language, defaulting when storage misbehaves.
func (a *App) lang() models.Lang {
	l, err := a.Store.Language()
	if err != nil {
		return models.DefaultLang
	}
	return l
}
