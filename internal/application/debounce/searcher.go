// Package debounce ejecuta búsquedas con retardo ligadas al ciclo de vida de
// su dueño: cada disparo reinicia el retardo y cancela la búsqueda en vuelo, y
// Close cancela todo lo pendiente.
package debounce

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/clock"
)

// Func búsqueda a ejecutar.
type Func[T any] func(ctx context.Context, query string) (T, error)

// ResultFunc recibe el resultado de la última búsqueda disparada.
type ResultFunc[T any] func(query string, result T, err error)

// Searcher búsqueda con debounce.
type Searcher[T any] struct {
	delay    time.Duration
	search   Func[T]
	onResult ResultFunc[T]
	clock    clock.Clock

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	seq      uint64
	timer    clock.Timer
	inflight context.CancelFunc
	wg       sync.WaitGroup
}

// New crea el searcher. parent acota la vida de todas las búsquedas.
func New[T any](parent context.Context, delay time.Duration, search Func[T], onResult ResultFunc[T], clk clock.Clock) *Searcher[T] {
	if clk == nil {
		clk = clock.Real{}
	}
	ctx, cancel := context.WithCancel(parent)
	return &Searcher[T]{delay: delay, search: search, onResult: onResult, clock: clk, ctx: ctx, cancel: cancel}
}

// Trigger reinicia el retardo con la nueva consulta. No encola: solo la última
// consulta llega a ejecutarse.
func (s *Searcher[T]) Trigger(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return
	}
	s.stopLocked()
	s.seq++
	seq := s.seq
	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(seq, query) })
}

// Cancel descarta el disparo pendiente y la búsqueda en vuelo sin cerrar el searcher.
func (s *Searcher[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.seq++
}

func (s *Searcher[T]) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.inflight != nil {
		s.inflight()
		s.inflight = nil
	}
}

func (s *Searcher[T]) fire(seq uint64, query string) {
	s.mu.Lock()
	if seq != s.seq || s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight = cancel
	s.timer = nil
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()
	defer cancel()

	result, err := s.search(ctx, query)

	s.mu.Lock()
	current := seq == s.seq && s.ctx.Err() == nil
	if current {
		s.inflight = nil
	}
	s.mu.Unlock()
	if current && s.onResult != nil {
		s.onResult(query, result, err)
	}
}

// Close cancela el disparo pendiente y la búsqueda en vuelo, y espera a que termine.
func (s *Searcher[T]) Close() {
	s.mu.Lock()
	s.stopLocked()
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}
