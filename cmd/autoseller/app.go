package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pokeclicker-automation/autoseller/internal/config"
	botCtx "github.com/pokeclicker-automation/autoseller/internal/context"
	"github.com/pokeclicker-automation/autoseller/internal/event"
	"github.com/pokeclicker-automation/autoseller/internal/game"
	"github.com/pokeclicker-automation/autoseller/internal/menu"
	"github.com/pokeclicker-automation/autoseller/internal/seller"
	"github.com/pokeclicker-automation/autoseller/internal/server"
	"github.com/pokeclicker-automation/autoseller/internal/settings"
)

// app holds every long lived component, wired the same way for all commands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    settings.Store
	bridge   *game.Bridge
	registry *menu.Registry
	listener *event.Listener
	seller   *seller.Seller
	server   *server.HttpServer
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	store, err := settings.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening settings: %w", err)
	}

	bridge := game.NewBridge(logger, cfg.Bridge.RequestTimeout)
	registry := menu.NewRegistry(store, logger)

	ctx := botCtx.NewContext("Seller", logger, bridge, store, registry, event.Notifier{})
	s := seller.New(ctx,
		seller.WithInterval(cfg.Seller.Interval),
		seller.WithUnlockWatchInterval(cfg.Seller.UnlockWatchInterval),
	)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		bridge:   bridge,
		registry: registry,
		listener: event.NewListener(logger),
		seller:   s,
		server:   server.New(logger, cfg.Server.ListenAddr, registry, bridge),
	}
	a.listener.Register(a.server.HandleEvent)
	a.listener.Register(a.logEvent)

	return a, nil
}

func (a *app) panelURL() string {
	return "http://" + a.cfg.Server.ListenAddr
}

func (a *app) logEvent(_ context.Context, e event.Event) error {
	if _, ok := e.(event.NotificationEvent); ok {
		a.logger.Info(e.Message(), slog.String("source", e.Source()))
	}

	return nil
}

func (a *app) close() {
	if c, ok := a.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn(fmt.Sprintf("Error closing settings store: %v", err))
		}
	}
}
