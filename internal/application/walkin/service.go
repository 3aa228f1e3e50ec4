// Package walkin implementa el mostrador de reservas walk-in: búsqueda del
// cliente por teléfono con debounce, alta confirmada de clientes nuevos,
// consulta de disponibilidad y reserva con comprobante impreso.
package walkin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/session"
	"github.com/jhoicas/clinic-console/internal/application/settings"
	"github.com/jhoicas/clinic-console/internal/application/validation"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/jhoicas/clinic-console/pkg/phone"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const deskSessionKey = "walkin.desk"

// Valores por defecto de la grilla.
const (
	defaultGridDays     = 1
	defaultSlotInterval = 30
)

// BookingStatusConfirmed estado con el que se crean las reservas del mostrador.
const BookingStatusConfirmed = "confirmed"

// SlipRenderer genera el comprobante imprimible de una reserva.
type SlipRenderer interface {
	BookingSlip(ctx context.Context, slip dto.BookingSlip) ([]byte, error)
}

// SettingsReader configuración del tenant (nombre comercial y preferencias regionales).
type SettingsReader interface {
	Load(ctx context.Context, p domain.Principal) (*entity.TenantSettingsDocument, error)
}

// Repositories puertos del backend que usa el mostrador.
type Repositories struct {
	Customers    repository.CustomerRepository
	Availability repository.AvailabilityRepository
	Bookings     repository.BookingRepository
	Services     repository.ServiceRepository
	Staff        repository.StaffRepository
	Outlets      repository.OutletRepository
}

// Service casos de uso del mostrador walk-in.
type Service struct {
	repos    Repositories
	settings SettingsReader
	slips    SlipRenderer
	debounce time.Duration
	clock    clock.Clock
	log      zerolog.Logger
}

// NewService construye el servicio. debounce es el retardo de la búsqueda por teléfono.
func NewService(repos Repositories, settings SettingsReader, slips SlipRenderer, debounce time.Duration, clk clock.Clock, log zerolog.Logger) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{repos: repos, settings: settings, slips: slips, debounce: debounce, clock: clk, log: log}
}

// Desk devuelve el mostrador de la sesión, creándolo en el primer acceso.
func (s *Service) Desk(sess *session.Session) (*Desk, error) {
	return session.Value(sess, deskSessionKey, func() (*Desk, error) {
		log := s.log.With().Str("tenant_id", sess.Principal.TenantID).Logger()
		return newDesk(sess.Principal, s.repos.Customers, s.debounce, s.clock, log), nil
	})
}

// Search dispara la búsqueda del cliente por teléfono. Cada llamada reinicia el
// retardo; el resultado se consulta con Lookup.
func (s *Service) Search(sess *session.Session, in dto.WalkInSearchRequest) (*dto.WalkInLookupView, error) {
	d, err := s.Desk(sess)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Phone) == "" {
		d.reset()
		v := d.View()
		return &v, nil
	}
	intl, err := phone.Normalize(in.Phone)
	if err != nil {
		return nil, domain.NewValidationError("phone", "debe iniciar con 8 y tener entre 8 y 12 dígitos")
	}
	v := d.search(sess.Principal, intl)
	return &v, nil
}

// Lookup estado actual de la búsqueda.
func (s *Service) Lookup(sess *session.Session) (*dto.WalkInLookupView, error) {
	d, err := s.Desk(sess)
	if err != nil {
		return nil, err
	}
	v := d.View()
	return &v, nil
}

// Reset limpia el mostrador para el siguiente cliente.
func (s *Service) Reset(sess *session.Session) error {
	d, err := s.Desk(sess)
	if err != nil {
		return err
	}
	d.reset()
	return nil
}

// CreateCustomer crea el perfil del cliente buscado que no existe. Requiere que
// la búsqueda haya terminado en not_found y la confirmación explícita.
func (s *Service) CreateCustomer(ctx context.Context, sess *session.Session, in dto.WalkInCustomerInput) (*entity.Customer, error) {
	d, err := s.Desk(sess)
	if err != nil {
		return nil, err
	}
	view := d.View()
	switch view.Status {
	case dto.LookupSearching:
		return nil, domain.ErrBusy
	case dto.LookupFound:
		return nil, fmt.Errorf("walkin: el teléfono %s ya tiene cliente: %w", view.Phone, domain.ErrConflict)
	case dto.LookupNotFound:
	default:
		return nil, fmt.Errorf("walkin: busque el teléfono antes de crear el cliente: %w", domain.ErrCustomerUnresolved)
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if !in.Confirm {
		return nil, domain.ErrConfirmationRequired
	}
	created, err := s.repos.Customers.Create(ctx, &entity.Customer{
		Name:   strings.TrimSpace(in.Name),
		Phone:  view.Phone,
		Email:  in.Email,
		Gender: in.Gender,
		Notes:  in.Notes,
	})
	if err != nil {
		return nil, err
	}
	d.resolve(created)
	s.log.Info().Str("customer_id", created.ID).Msg("walkin: cliente nuevo creado en mostrador")
	return created, nil
}

// Grid consulta la grilla de disponibilidad y sugiere la primera franja libre.
func (s *Service) Grid(ctx context.Context, req dto.WalkInGridRequest) (*dto.WalkInGridResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.NumDays == 0 {
		req.NumDays = defaultGridDays
	}
	if req.SlotIntervalMinutes == 0 {
		req.SlotIntervalMinutes = defaultSlotInterval
	}
	grid, err := s.repos.Availability.Grid(ctx, repository.GridQuery{
		ServiceID:           req.ServiceID,
		StaffID:             req.StaffID,
		OutletID:            req.OutletID,
		StartDate:           req.StartDate,
		NumDays:             req.NumDays,
		SlotIntervalMinutes: req.SlotIntervalMinutes,
	})
	if err != nil {
		return nil, err
	}
	start, _ := time.Parse("2006-01-02", req.StartDate)
	out := &dto.WalkInGridResponse{Grid: grid}
	for i := 0; i < req.NumDays; i++ {
		out.Dates = append(out.Dates, start.AddDate(0, 0, i).Format("2006-01-02"))
	}
	if date, slot, ok := grid.FirstAvailable(out.Dates); ok {
		out.Suggested = &dto.SuggestedSlot{Date: date, Slot: slot}
	}
	return out, nil
}

// Book verifica la franja y crea la reserva walk-in para el cliente resuelto.
func (s *Service) Book(ctx context.Context, sess *session.Session, req dto.WalkInBookingRequest) (*dto.WalkInBookingResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	start, end := entity.ClockTime(req.StartTime), entity.ClockTime(req.EndTime)
	sm, _ := start.Minutes()
	em, _ := end.Minutes()
	if em <= sm {
		return nil, domain.NewValidationError("end_time", "debe ser posterior a la hora de inicio")
	}

	d, err := s.Desk(sess)
	if err != nil {
		return nil, err
	}
	view := d.View()
	if view.Status == dto.LookupSearching {
		return nil, domain.ErrBusy
	}
	if view.Customer == nil || !view.Confirmed {
		return nil, domain.ErrCustomerUnresolved
	}

	check, err := s.repos.Availability.Check(ctx, repository.CheckQuery{
		StaffID:   req.StaffID,
		Date:      req.Date,
		StartTime: start,
		EndTime:   end,
		ServiceID: req.ServiceID,
	})
	if err != nil {
		return nil, err
	}
	if !check.Available {
		reason := check.Reason
		if reason == "" {
			reason = "franja ocupada"
		}
		return nil, fmt.Errorf("walkin: %s: %w", reason, domain.ErrSlotUnavailable)
	}

	booking, err := s.repos.Bookings.Create(ctx, &entity.Booking{
		CustomerID: view.Customer.ID,
		ServiceID:  req.ServiceID,
		StaffID:    req.StaffID,
		OutletID:   req.OutletID,
		Date:       req.Date,
		StartTime:  start,
		EndTime:    end,
		Source:     entity.BookingSourceWalkIn,
		Status:     BookingStatusConfirmed,
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("booking_id", booking.ID).Str("customer_id", view.Customer.ID).Msg("walkin: reserva creada")

	slip := s.buildSlip(ctx, sess.Principal, booking, view.Customer)
	d.keepSlip(slip)
	d.reset()
	return &dto.WalkInBookingResponse{Booking: booking, Slip: slip}, nil
}

// buildSlip arma el comprobante. El servicio se consulta por id y los nombres
// de staff y sede en paralelo; si alguna consulta falla se usa el id.
func (s *Service) buildSlip(ctx context.Context, p domain.Principal, b *entity.Booking, c *entity.Customer) dto.BookingSlip {
	var (
		svc    *entity.Service
		staff  *entity.Staff
		outlet *entity.Outlet
		doc    *entity.TenantSettingsDocument
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		item, err := s.repos.Services.Get(gctx, b.ServiceID)
		if err != nil {
			s.log.Warn().Err(err).Str("service_id", b.ServiceID).Msg("walkin: servicio para comprobante")
			return nil
		}
		svc = item
		return nil
	})
	g.Go(func() error {
		items, err := s.repos.Staff.List(gctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("walkin: staff para comprobante")
			return nil
		}
		for i := range items {
			if items[i].ID == b.StaffID {
				staff = &items[i]
			}
		}
		return nil
	})
	g.Go(func() error {
		items, err := s.repos.Outlets.List(gctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("walkin: sedes para comprobante")
			return nil
		}
		for i := range items {
			if items[i].ID == b.OutletID {
				outlet = &items[i]
			}
		}
		return nil
	})
	if s.settings != nil {
		g.Go(func() error {
			d, err := s.settings.Load(gctx, p)
			if err != nil {
				s.log.Warn().Err(err).Msg("walkin: configuración para comprobante")
				return nil
			}
			doc = d
			return nil
		})
	}
	_ = g.Wait()

	if doc == nil {
		def := entity.DefaultTenantSettings()
		doc = &def
	}
	now := s.clock.Now()
	slip := dto.BookingSlip{
		BusinessName:  nonEmpty(doc.Business.Name, p.TenantSlug),
		BusinessPhone: doc.Business.Phone,
		BookingID:     b.ID,
		Date:          b.Date,
		StartTime:     string(b.StartTime),
		EndTime:       string(b.EndTime),
		CustomerName:  c.Name,
		CustomerPhone: c.Phone,
		ServiceName:   b.ServiceID,
		StaffName:     b.StaffID,
		OutletName:    b.OutletID,
		Notes:         b.Notes,
		IssuedAt:      now,
	}
	if day, err := time.Parse("2006-01-02", b.Date); err == nil {
		slip.Date = settings.FormatDate(day, doc.Regional)
	}
	if svc != nil {
		slip.ServiceName = svc.Name
		regional := doc.Regional
		if svc.Pricing.Currency != "" {
			regional.Currency = svc.Pricing.Currency
		}
		slip.Price = settings.FormatMoney(svc.Pricing.PriceAt(b.OutletID, now), regional)
	}
	if staff != nil {
		slip.StaffName = staff.Name
	}
	if outlet != nil {
		slip.OutletName = outlet.Name
		slip.OutletAddress = outlet.Address
	}
	return slip
}

// Slip devuelve el PDF del comprobante de una reserva emitida en la sesión.
func (s *Service) Slip(ctx context.Context, sess *session.Session, bookingID string) ([]byte, error) {
	d, err := s.Desk(sess)
	if err != nil {
		return nil, err
	}
	slip, ok := d.slip(bookingID)
	if !ok {
		return nil, fmt.Errorf("walkin: comprobante %s: %w", bookingID, domain.ErrNotFound)
	}
	return s.slips.BookingSlip(ctx, slip)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
