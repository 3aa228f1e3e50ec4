// Package session mantiene un objeto de estado explícito por sesión de consola
// (tenant + usuario): asistente, ventanas de deshacer y búsquedas con debounce.
// Se crea en el primer acceso autenticado y se destruye al cerrar sesión.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/clinic-console/internal/domain"
)

// Closer componente de sesión que libera recursos al cerrar (timers, búsquedas).
type Closer interface {
	Close()
}

// Session estado de una sesión autenticada.
type Session struct {
	Principal domain.Principal
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	values   map[string]any
	closed   bool
}

// Key identifica la sesión de un principal.
func Key(p domain.Principal) string {
	return p.TenantID + ":" + p.UserID
}

// Value devuelve el componente name de la sesión, construyéndolo en el primer acceso.
func Value[T any](s *Session, name string, build func() (T, error)) (T, error) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return zero, fmt.Errorf("session: cerrada: %w", domain.ErrUnauthorized)
	}
	if v, ok := s.values[name]; ok {
		t, ok := v.(T)
		if !ok {
			return zero, fmt.Errorf("session: %s tiene tipo %T", name, v)
		}
		return t, nil
	}
	t, err := build()
	if err != nil {
		return zero, err
	}
	s.values[name] = t
	return t, nil
}

// Close cierra todos los componentes que implementan Closer. Es idempotente.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	values := s.values
	s.values = nil
	s.mu.Unlock()
	for _, v := range values {
		if c, ok := v.(Closer); ok {
			c.Close()
		}
	}
}

// Registry sesiones activas del proceso.
type Registry struct {
	mu    sync.Mutex
	items map[string]*Session
	now   func() time.Time
}

// NewRegistry crea un registro vacío.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Session), now: time.Now}
}

// Get devuelve la sesión del principal, creándola si no existe. El token se
// actualiza en cada acceso porque el backend puede rotarlo.
func (r *Registry) Get(p domain.Principal) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := Key(p)
	if s, ok := r.items[k]; ok {
		s.mu.Lock()
		s.Principal = p
		s.lastSeen = r.now()
		s.mu.Unlock()
		return s
	}
	now := r.now()
	s := &Session{Principal: p, CreatedAt: now, lastSeen: now, values: make(map[string]any)}
	r.items[k] = s
	return s
}

// End cierra y elimina la sesión del principal. Devuelve false si no existía.
func (r *Registry) End(p domain.Principal) bool {
	r.mu.Lock()
	s, ok := r.items[Key(p)]
	delete(r.items, Key(p))
	r.mu.Unlock()
	if ok {
		s.Close()
	}
	return ok
}

// Len cantidad de sesiones activas.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// EvictIdle cierra las sesiones sin actividad durante maxIdle. Devuelve cuántas cerró.
// Get refresca lastSeen bajo r.mu y aquí se lee bajo el mismo lock, así que una
// sesión recién devuelta por Get nunca queda por debajo del corte.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	var idle []*Session
	r.mu.Lock()
	for k, s := range r.items {
		s.mu.Lock()
		stale := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if stale {
			idle = append(idle, s)
			delete(r.items, k)
		}
	}
	r.mu.Unlock()
	for _, s := range idle {
		s.Close()
	}
	return len(idle)
}

// Shutdown cierra todas las sesiones (apagado del servidor).
func (r *Registry) Shutdown(_ context.Context) {
	r.mu.Lock()
	items := r.items
	r.items = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range items {
		s.Close()
	}
}
