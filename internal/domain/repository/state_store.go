package repository

import (
	"context"
	"fmt"
)

// StateStore almacén durable de documentos JSON de la consola (sustituye al
// almacenamiento del navegador). Las llaves se construyen con TenantKey.
type StateStore interface {
	// Get decodifica el documento en dst. found=false si la llave no existe.
	Get(ctx context.Context, key string, dst any) (found bool, err error)
	Put(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
}

// Replacer almacén que escribe un documento y borra llaves en una sola operación atómica.
type Replacer interface {
	Replace(ctx context.Context, key string, v any, obsolete ...string) error
}

// Replace guarda v bajo key y borra obsolete. Es atómico cuando el store
// implementa Replacer; si no, escribe primero y borra después.
func Replace(ctx context.Context, s StateStore, key string, v any, obsolete ...string) error {
	if r, ok := s.(Replacer); ok {
		return r.Replace(ctx, key, v, obsolete...)
	}
	if err := s.Put(ctx, key, v); err != nil {
		return err
	}
	return s.Delete(ctx, obsolete...)
}

// TenantKey llave de un documento dentro del espacio del tenant.
func TenantKey(tenantID, name string) string {
	return fmt.Sprintf("tenant:%s:%s", tenantID, name)
}
