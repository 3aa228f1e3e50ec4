package walkin

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/jhoicas/clinic-console/internal/application/debounce"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/rs/zerolog"
)

// maxSlips comprobantes que conserva el mostrador para reimpresión.
const maxSlips = 20

// Desk estado del mostrador walk-in de una sesión: búsqueda del cliente por
// teléfono, cliente resuelto y comprobantes emitidos. Close cancela la búsqueda pendiente.
type Desk struct {
	searcher *debounce.Searcher[*entity.Customer]
	log      zerolog.Logger

	mu        sync.Mutex
	principal domain.Principal
	status    dto.LookupStatus
	phone     string
	customer  *entity.Customer
	confirmed bool
	errMsg    string
	slips     map[string]dto.BookingSlip
	slipOrder []string
}

func newDesk(p domain.Principal, customers repository.CustomerRepository, delay time.Duration, clk clock.Clock, log zerolog.Logger) *Desk {
	d := &Desk{principal: p, status: dto.LookupIdle, slips: make(map[string]dto.BookingSlip), log: log}
	search := func(ctx context.Context, phone string) (*entity.Customer, error) {
		d.mu.Lock()
		p := d.principal
		d.mu.Unlock()
		return customers.FindByPhone(domain.WithPrincipal(ctx, p), phone)
	}
	d.searcher = debounce.New(context.Background(), delay, search, d.onResult, clk)
	return d
}

// search reinicia la búsqueda con el número ya normalizado.
func (d *Desk) search(p domain.Principal, phone string) dto.WalkInLookupView {
	d.mu.Lock()
	d.principal = p
	d.status = dto.LookupSearching
	d.phone = phone
	d.customer = nil
	d.confirmed = false
	d.errMsg = ""
	view := d.viewLocked()
	d.mu.Unlock()
	d.searcher.Trigger(phone)
	return view
}

func (d *Desk) onResult(phone string, c *entity.Customer, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if phone != d.phone || d.status != dto.LookupSearching {
		return
	}
	switch {
	case err != nil:
		d.status = dto.LookupFailed
		d.errMsg = err.Error()
		d.log.Warn().Err(err).Msg("walkin: búsqueda de cliente falló")
	case c == nil:
		d.status = dto.LookupNotFound
	default:
		d.status = dto.LookupFound
		d.customer = c
		d.confirmed = true
	}
}

// resolve marca como confirmado el cliente recién creado.
func (d *Desk) resolve(c *entity.Customer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = dto.LookupFound
	d.phone = c.Phone
	d.customer = c
	d.confirmed = true
	d.errMsg = ""
}

// reset vuelve a idle y descarta la búsqueda en curso.
func (d *Desk) reset() {
	d.searcher.Cancel()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = dto.LookupIdle
	d.phone = ""
	d.customer = nil
	d.confirmed = false
	d.errMsg = ""
}

// View estado actual de la búsqueda.
func (d *Desk) View() dto.WalkInLookupView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked()
}

func (d *Desk) viewLocked() dto.WalkInLookupView {
	v := dto.WalkInLookupView{Status: d.status, Phone: d.phone, Confirmed: d.confirmed, Error: d.errMsg}
	if d.customer != nil {
		c := *d.customer
		v.Customer = &c
	}
	return v
}

func (d *Desk) keepSlip(s dto.BookingSlip) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.slips[s.BookingID]; !ok {
		d.slipOrder = append(d.slipOrder, s.BookingID)
	}
	d.slips[s.BookingID] = s
	for len(d.slipOrder) > maxSlips {
		delete(d.slips, d.slipOrder[0])
		d.slipOrder = d.slipOrder[1:]
	}
}

func (d *Desk) slip(bookingID string) (dto.BookingSlip, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.slips[bookingID]
	return s, ok
}

// Close cancela la búsqueda pendiente y espera a la que esté en vuelo.
func (d *Desk) Close() {
	d.searcher.Close()
}
