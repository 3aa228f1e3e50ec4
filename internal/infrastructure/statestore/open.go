// Package statestore elige la implementación del almacén de estado según STATE_DRIVER.
package statestore

import (
	"context"
	"fmt"

	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/jhoicas/clinic-console/internal/infrastructure/memstore"
	"github.com/jhoicas/clinic-console/internal/infrastructure/postgres"
	"github.com/jhoicas/clinic-console/internal/infrastructure/redisstore"
	"github.com/jhoicas/clinic-console/pkg/config"
)

// Open abre el almacén configurado. El cierre devuelto libera la conexión subyacente.
func Open(ctx context.Context, cfg *config.Config) (repository.StateStore, func(), error) {
	switch cfg.State.Driver {
	case config.StateDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("statestore: postgres: %w", err)
		}
		store := postgres.NewDocumentStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("statestore: esquema: %w", err)
		}
		return store, pool.Close, nil
	case config.StateDriverMemory:
		return memstore.New(), func() {}, nil
	case config.StateDriverRedis:
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("statestore: redis: %w", err)
		}
		return redisstore.New(client), func() { _ = client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("statestore: driver desconocido %q", cfg.State.Driver)
}
