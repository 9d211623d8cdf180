package main

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/custodia-labs/justgo-bridge/internal/adapters/driven/config/file"
	"github.com/custodia-labs/justgo-bridge/internal/adapters/driven/storage/sqlite"
	tokenmemory "github.com/custodia-labs/justgo-bridge/internal/adapters/driven/tokenstore/memory"
	tokenredis "github.com/custodia-labs/justgo-bridge/internal/adapters/driven/tokenstore/redis"
	"github.com/custodia-labs/justgo-bridge/internal/adapters/driving/cli"
	"github.com/custodia-labs/justgo-bridge/internal/connectors/justgo"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/justgo-bridge/internal/core/services"
	"github.com/custodia-labs/justgo-bridge/internal/logger"
)

// buildServices wires configuration, token cache, local database, client
// and services for one command invocation.
func buildServices(ctx context.Context, configPath string) (*cli.Services, error) {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, err
	}
	settings, err := file.LoadSettings(store, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", store.Path(), err)
	}
	return wire(ctx, settings, store)
}

// wire builds services from validated settings.
func wire(ctx context.Context, settings file.Settings, store driven.ConfigStore) (*cli.Services, error) {
	var closers []func() error
	closeAll := func() error {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		return errs
	}

	tokens, err := newTokenStore(ctx, settings.Cache)
	if err != nil {
		return nil, err
	}
	if c, ok := tokens.(interface{ Close() error }); ok {
		closers = append(closers, c.Close)
	}

	db, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("opening local database: %w", err), closeAll())
	}
	closers = append(closers, db.Close)
	logger.Debug("local database: %s", db.Path())

	client, err := justgo.New(settings.JustGo, justgo.WithTokenStore(tokens))
	if err != nil {
		return nil, multierr.Append(err, closeAll())
	}

	users := db.UserStore()
	audit := db.AuditLogger()
	workflows := services.NewMemberWorkflowService(client)

	return &cli.Services{
		Health:          client,
		Workflows:       workflows,
		Admin:           services.NewAdminOverrideService(client, workflows, users, audit),
		Users:           users,
		Staff:           db,
		Audit:           audit,
		Config:          store,
		ExpiryDaysAhead: settings.Expiry.DaysAhead,
		Close:           closeAll,
	}, nil
}

// newTokenStore selects the shared token cache.
func newTokenStore(ctx context.Context, cache file.CacheSettings) (driven.TokenStore, error) {
	switch cache.Backend {
	case file.CacheRedis:
		s, err := tokenredis.New(ctx, tokenredis.Options{
			Addr:     cache.RedisAddr,
			Username: cache.RedisUsername,
			Password: cache.RedisPassword,
			DB:       cache.RedisDB,
			Prefix:   cache.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting token cache: %w", err)
		}
		logger.Debug("token cache: redis at %s", cache.RedisAddr)
		return s, nil
	default:
		return tokenmemory.New(), nil
	}
}
