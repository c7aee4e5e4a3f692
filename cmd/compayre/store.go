package main

import (
	"context"

	"github.com/compayre/backend/internal/pkg/store"
	"github.com/compayre/backend/internal/pkg/store/xpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

func (a *app) connect(ctx context.Context) (*pgxpool.Pool, error) {
	if err := a.cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	return xpgx.Connect(ctx, a.cfg.DatabaseURL)
}

func (a *app) openStore(ctx context.Context) (store.Store, func(), error) {
	policy, err := store.ParseUpsertPolicy(a.cfg.UpsertPolicy)
	if err != nil {
		return nil, nil, err
	}

	pool, err := a.connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	return store.NewStore(xpgx.Wrap(pool), policy), pool.Close, nil
}
