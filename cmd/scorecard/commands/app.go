package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/riteshk28/Lighthouse/internal/persistence"
	"github.com/riteshk28/Lighthouse/internal/state"
	"github.com/riteshk28/Lighthouse/pkg/config"
	"github.com/riteshk28/Lighthouse/pkg/logger"
)

// app is the wiring shared by the commands that work on the scorecard
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	gateway persistence.Gateway
	store   *state.Store
}

// newApp loads config, opens the configured backend and builds the store.
// Logs go to logOut. The persisted state is not loaded yet.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewWithWriter(cfg, logOut)

	gw, err := persistence.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	store := state.New(gw, state.Options{
		SaveTimeout: cfg.Store.SaveTimeout,
		LoadTimeout: cfg.Store.LoadTimeout,
	}, log)

	return &app{cfg: cfg, log: log, gateway: gw, store: store}, nil
}

// Close waits for pending saves and releases the backend
func (a *app) Close(ctx context.Context) {
	if err := a.store.Flush(ctx); err != nil {
		a.log.WithError(err).Warn("Pending saves did not finish")
	}
	if err := a.gateway.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close store")
	}
}
