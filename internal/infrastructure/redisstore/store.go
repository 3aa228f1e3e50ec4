// Package redisstore implementa repository.StateStore sobre Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/jhoicas/clinic-console/pkg/config"
)

var (
	_ repository.StateStore = (*Store)(nil)
	_ repository.Replacer   = (*Store)(nil)
)

// Store documentos JSON como valores string sin expiración.
type Store struct {
	c *redis.Client
}

// NewClient crea el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return c, nil
}

// New construye el store sobre un cliente existente.
func New(c *redis.Client) *Store {
	return &Store{c: c}
}

func (s *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redisstore: get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("redisstore: decodificar %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) Put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redisstore: codificar %s: %w", key, err)
	}
	if err := s.c.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redisstore: set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.c.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redisstore: del: %w", err)
	}
	return nil
}

// Replace escribe key y borra obsolete dentro de MULTI/EXEC.
func (s *Store) Replace(ctx context.Context, key string, v any, obsolete ...string) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redisstore: codificar %s: %w", key, err)
	}
	_, err = s.c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(obsolete) > 0 {
			pipe.Del(ctx, obsolete...)
		}
		pipe.Set(ctx, key, raw, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisstore: replace %s: %w", key, err)
	}
	return nil
}
