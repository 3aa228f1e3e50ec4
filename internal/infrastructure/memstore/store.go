// Package memstore implementa repository.StateStore en memoria, para desarrollo y tests.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Store documentos JSON en un mapa protegido por mutex. Guarda los bytes
// serializados para que los lectores nunca compartan memoria con el escritor.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// New crea un store vacío.
func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

// Get decodifica el documento en dst.
func (s *Store) Get(_ context.Context, key string, dst any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.docs[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("memstore: decodificar %s: %w", key, err)
	}
	return true, nil
}

// Put serializa v y lo guarda bajo key.
func (s *Store) Put(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("memstore: codificar %s: %w", key, err)
	}
	s.mu.Lock()
	s.docs[key] = raw
	s.mu.Unlock()
	return nil
}

// Delete elimina las llaves; las inexistentes se ignoran.
func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.docs, k)
	}
	s.mu.Unlock()
	return nil
}

// Replace guarda v y borra obsolete bajo el mismo lock.
func (s *Store) Replace(_ context.Context, key string, v any, obsolete ...string) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("memstore: codificar %s: %w", key, err)
	}
	s.mu.Lock()
	for _, k := range obsolete {
		delete(s.docs, k)
	}
	s.docs[key] = raw
	s.mu.Unlock()
	return nil
}

// Raw devuelve los bytes guardados bajo key (nil si no existe).
func (s *Store) Raw(key string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.docs[key]...)
}

// Len cantidad de documentos.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
