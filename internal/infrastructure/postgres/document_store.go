package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
)

var (
	_ repository.StateStore = (*DocumentStore)(nil)
	_ repository.Replacer   = (*DocumentStore)(nil)
)

// documentsDDL tabla de documentos de la consola. Se aplica con EnsureSchema al arrancar.
const documentsDDL = `
	CREATE TABLE IF NOT EXISTS console_documents (
		key        TEXT PRIMARY KEY,
		body       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// querier subconjunto de pgxpool.Pool/pgx.Tx que usa el store.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DocumentStore implementación de StateStore sobre una tabla JSONB.
type DocumentStore struct {
	db querier
	tx *TxRunner // nil si db no abre transacciones
}

// NewDocumentStore construye el store con el pool (o una transacción).
func NewDocumentStore(db querier) *DocumentStore {
	s := &DocumentStore{db: db}
	if b, ok := db.(beginner); ok {
		s.tx = NewTxRunner(b)
	}
	return s
}

// EnsureSchema crea la tabla si no existe.
func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, documentsDDL); err != nil {
		return fmt.Errorf("crear console_documents: %w", err)
	}
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	var body []byte
	err := s.db.QueryRow(ctx, `SELECT body FROM console_documents WHERE key = $1`, key).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		if isUndefinedTable(err) {
			return false, fmt.Errorf("get document %s: falta la tabla console_documents (EnsureSchema): %w", key, err)
		}
		return false, fmt.Errorf("get document %s: %w", key, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return true, fmt.Errorf("decode document %s: %w", key, err)
	}
	return true, nil
}

func (s *DocumentStore) Put(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", key, err)
	}
	query := `
		INSERT INTO console_documents (key, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`
	if _, err := s.db.Exec(ctx, query, key, body); err != nil {
		return fmt.Errorf("upsert document %s: %w", key, err)
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM console_documents WHERE key = ANY($1)`, keys); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}
	return nil
}

// Replace hace el upsert de key y borra obsolete en la misma transacción.
func (s *DocumentStore) Replace(ctx context.Context, key string, v any, obsolete ...string) error {
	swap := func(store *DocumentStore) error {
		if err := store.Put(ctx, key, v); err != nil {
			return err
		}
		return store.Delete(ctx, obsolete...)
	}
	if s.tx == nil {
		return swap(s)
	}
	return s.tx.Run(ctx, swap)
}
