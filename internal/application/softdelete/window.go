// Package softdelete implementa el borrado lógico con ventana de deshacer.
// Cada listado tiene una sola ventana activa: un nuevo borrado reemplaza la
// anterior en lugar de acumular timers.
package softdelete

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/rs/zerolog"
)

// ItemFunc operación del backend sobre un elemento (borrar o restaurar).
type ItemFunc func(ctx context.Context, id string) error

// Pending ventana de deshacer activa.
type Pending struct {
	Token     string    `json:"token"`
	ItemID    string    `json:"item_id"`
	Label     string    `json:"label,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

type entry struct {
	Pending
	timer clock.Timer
}

// Window ventana de deshacer de un listado.
type Window struct {
	name     string
	duration time.Duration
	remove   ItemFunc
	restore  ItemFunc
	clock    clock.Clock
	log      zerolog.Logger

	mu      sync.Mutex
	current *entry
	closed  bool
}

// NewWindow construye la ventana. remove hace el borrado lógico en el backend y restore lo revierte.
func NewWindow(name string, duration time.Duration, remove, restore ItemFunc, clk clock.Clock, log zerolog.Logger) *Window {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Window{
		name:     name,
		duration: duration,
		remove:   remove,
		restore:  restore,
		clock:    clk,
		log:      log.With().Str("list", name).Logger(),
	}
}

// Delete borra el elemento y abre su ventana de deshacer, cancelando la anterior.
func (w *Window) Delete(ctx context.Context, id, label string) (*Pending, error) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("%s: ventana cerrada", w.name)
	}
	if err := w.remove(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: eliminar %s: %w", w.name, id, err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, fmt.Errorf("%s: ventana cerrada", w.name)
	}
	if w.current != nil {
		w.current.timer.Stop()
		w.log.Debug().Str("item_id", w.current.ItemID).Msg("softdelete: ventana anterior reemplazada")
	}
	e := &entry{Pending: Pending{
		Token:     uuid.NewString(),
		ItemID:    id,
		Label:     label,
		ExpiresAt: w.clock.Now().Add(w.duration),
	}}
	token := e.Token
	e.timer = w.clock.AfterFunc(w.duration, func() { w.expire(token) })
	w.current = e
	p := e.Pending
	return &p, nil
}

// expire cierra la ventana si sigue siendo la misma; si ya se deshizo o fue reemplazada no hace nada.
func (w *Window) expire(token string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil || w.current.Token != token {
		return
	}
	w.log.Debug().Str("item_id", w.current.ItemID).Msg("softdelete: borrado definitivo en la consola")
	w.current = nil
}

// Undo restaura el elemento de la ventana activa. Con token vacío usa la
// ventana actual; con un token distinto al actual devuelve ErrNoUndoPending.
// Si la restauración falla, la ventana se reabre con el tiempo que le quedaba
// para poder reintentar.
func (w *Window) Undo(ctx context.Context, token string) (*Pending, error) {
	w.mu.Lock()
	e := w.current
	if e == nil || (token != "" && token != e.Token) {
		w.mu.Unlock()
		return nil, domain.ErrNoUndoPending
	}
	e.timer.Stop()
	w.current = nil
	w.mu.Unlock()

	if err := w.restore(ctx, e.ItemID); err != nil {
		w.reopen(e)
		return nil, fmt.Errorf("%s: restaurar %s: %w", w.name, e.ItemID, err)
	}
	p := e.Pending
	return &p, nil
}

// reopen vuelve a activar la ventana tras un deshacer fallido, salvo que haya
// vencido, que otro borrado la haya reemplazado o que la ventana esté cerrada.
func (w *Window) reopen(e *entry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	remaining := e.ExpiresAt.Sub(w.clock.Now())
	if w.closed || w.current != nil || remaining <= 0 {
		w.log.Debug().Str("item_id", e.ItemID).Msg("softdelete: deshacer fallido, la ventana no se reabre")
		return
	}
	token := e.Token
	e.timer = w.clock.AfterFunc(remaining, func() { w.expire(token) })
	w.current = e
}

// Current ventana activa, si existe.
func (w *Window) Current() *Pending {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil
	}
	p := w.current.Pending
	return &p
}

// Close detiene el timer pendiente. Se llama al cerrar la sesión.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current != nil {
		w.current.timer.Stop()
		w.current = nil
	}
	w.closed = true
}
