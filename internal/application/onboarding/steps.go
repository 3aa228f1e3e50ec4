package onboarding

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/validation"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/onboarding"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/jhoicas/clinic-console/pkg/phone"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultCurrency moneda de los precios cuando el formulario no la indica.
const DefaultCurrency = "IDR"

// Listener recibe la variante de estado del paso después de cada cambio.
type Listener func(state onboarding.StepState)

// usageCache contador de uso del plan para un recurso. Se carga al montar y se
// incrementa localmente después de cada alta.
type usageCache struct {
	mu      sync.Mutex
	loaded  bool
	counter entity.UsageCounter
}

func (u *usageCache) set(c entity.UsageCounter) {
	u.mu.Lock()
	u.counter, u.loaded = c, true
	u.mu.Unlock()
}

func (u *usageCache) get() (entity.UsageCounter, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.counter, u.loaded
}

func (u *usageCache) increment() {
	u.mu.Lock()
	u.counter.Used++
	u.mu.Unlock()
}

// checkLimit corta el alta antes de llamar al backend cuando el plan llegó a su tope.
// Si el resumen de uso no está disponible se deja pasar: el backend también lo valida.
func checkLimit(ctx context.Context, cache *usageCache, tenants repository.TenantRepository, resource string,
	pick func(*entity.PlanUsage) entity.UsageCounter, log zerolog.Logger) error {
	c, ok := cache.get()
	if !ok {
		usage, err := tenants.Usage(ctx)
		if err != nil {
			log.Warn().Err(err).Str("resource", resource).Msg("onboarding: resumen de uso no disponible")
			return nil
		}
		c = pick(usage)
		cache.set(c)
	}
	if c.Reached() {
		return &domain.LimitError{Resource: resource, Used: c.Used, Limit: c.Limit}
	}
	return nil
}

// ── Paso 1: sedes ──────────────────────────────────────────────────────────

// OutletStep paso de sedes: valida, crea en el backend y acumula en el progreso.
type OutletStep struct {
	outlets  repository.OutletRepository
	tenants  repository.TenantRepository
	progress *ProgressStore
	usage    usageCache
	notify   Listener
	log      zerolog.Logger
}

// NewOutletStep construye el paso.
func NewOutletStep(outlets repository.OutletRepository, tenants repository.TenantRepository, progress *ProgressStore, log zerolog.Logger) *OutletStep {
	return &OutletStep{outlets: outlets, tenants: tenants, progress: progress, log: log}
}

// State variante actual, derivada del progreso acumulado.
func (s *OutletStep) State() onboarding.OutletStepState {
	c, _ := s.usage.get()
	return onboarding.OutletStepState{Outlets: s.progress.Snapshot().Outlets, Usage: c}
}

// Add valida, verifica el tope del plan, crea la sede y la agrega al progreso.
func (s *OutletStep) Add(ctx context.Context, in dto.OutletInput) (*entity.OutletDraft, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := checkLimit(ctx, &s.usage, s.tenants, "sedes", func(u *entity.PlanUsage) entity.UsageCounter { return u.Outlets }, s.log); err != nil {
		return nil, err
	}
	intl, err := phone.Normalize(in.Phone)
	if err != nil {
		return nil, domain.NewValidationError("phone", "debe iniciar con 8 y tener entre 8 y 12 dígitos")
	}
	created, err := s.outlets.Create(ctx, &entity.Outlet{
		Name:    strings.TrimSpace(in.Name),
		Address: strings.TrimSpace(in.Address),
		City:    strings.TrimSpace(in.City),
		Phone:   intl,
		Email:   strings.TrimSpace(in.Email),
	})
	if err != nil {
		return nil, fmt.Errorf("onboarding: crear sede: %w", err)
	}
	draft := entity.OutletDraft{
		ID:      created.ID,
		Name:    created.Name,
		Address: created.Address,
		City:    created.City,
		Phone:   created.Phone,
		Email:   created.Email,
	}
	s.progress.AddOutlet(ctx, draft)
	s.usage.increment()
	s.changed()
	return &draft, nil
}

func (s *OutletStep) changed() {
	if s.notify != nil {
		s.notify(s.State())
	}
}

// ── Paso 2: productos/servicios ────────────────────────────────────────────

// ProductStep paso de servicios del catálogo.
type ProductStep struct {
	services repository.ServiceRepository
	tenants  repository.TenantRepository
	progress *ProgressStore
	usage    usageCache
	notify   Listener
	log      zerolog.Logger
}

// NewProductStep construye el paso.
func NewProductStep(services repository.ServiceRepository, tenants repository.TenantRepository, progress *ProgressStore, log zerolog.Logger) *ProductStep {
	return &ProductStep{services: services, tenants: tenants, progress: progress, log: log}
}

// State variante actual.
func (s *ProductStep) State() onboarding.ProductStepState {
	c, _ := s.usage.get()
	return onboarding.ProductStepState{Products: s.progress.Snapshot().Products, Usage: c}
}

// Add valida, verifica el tope del plan, crea el servicio y lo agrega al progreso.
func (s *ProductStep) Add(ctx context.Context, in dto.ProductInput) (*entity.ProductDraft, error) {
	verr := &domain.ValidationError{}
	if err := validation.Merge(verr, validation.Struct(in)); err != nil {
		return nil, err
	}
	if !in.BasePrice.GreaterThan(decimal.Zero) {
		verr.Add("base_price", "debe ser mayor que 0")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if err := checkLimit(ctx, &s.usage, s.tenants, "servicios", func(u *entity.PlanUsage) entity.UsageCounter { return u.Services }, s.log); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	created, err := s.services.Create(ctx, &entity.Service{
		Name:            strings.TrimSpace(in.Name),
		Category:        in.Category,
		Description:     in.Description,
		DurationMinutes: in.DurationMinutes,
		Pricing:         entity.ServicePricing{BasePrice: in.BasePrice, Currency: currency},
		IsActive:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("onboarding: crear servicio: %w", err)
	}
	draft := entity.ProductDraft{
		ID:              created.ID,
		Name:            created.Name,
		Category:        created.Category,
		DurationMinutes: created.DurationMinutes,
		BasePrice:       created.Pricing.BasePrice,
		Currency:        created.Pricing.Currency,
	}
	s.progress.AddProduct(ctx, draft)
	s.usage.increment()
	if s.notify != nil {
		s.notify(s.State())
	}
	return &draft, nil
}

// CategoryTemplates categorías sugeridas para el formulario.
func (s *ProductStep) CategoryTemplates(ctx context.Context) ([]entity.CategoryTemplate, error) {
	return s.services.CategoryTemplates(ctx)
}

// ── Paso 3: staff y disponibilidad ─────────────────────────────────────────

// StaffStep paso de staff con su sub-pestaña de disponibilidad semanal.
type StaffStep struct {
	staff        repository.StaffRepository
	availability repository.AvailabilityRepository
	outlets      repository.OutletRepository
	tenants      repository.TenantRepository
	progress     *ProgressStore
	usage        usageCache
	notify       Listener
	log          zerolog.Logger

	mu       sync.Mutex
	subTab   onboarding.StaffSubTab
	selected string
}

// NewStaffStep construye el paso.
func NewStaffStep(staff repository.StaffRepository, availability repository.AvailabilityRepository, outlets repository.OutletRepository,
	tenants repository.TenantRepository, progress *ProgressStore, log zerolog.Logger) *StaffStep {
	return &StaffStep{
		staff:        staff,
		availability: availability,
		outlets:      outlets,
		tenants:      tenants,
		progress:     progress,
		log:          log,
		subTab:       onboarding.SubTabStaff,
	}
}

// State variante actual.
func (s *StaffStep) State() onboarding.StaffStepState {
	c, _ := s.usage.get()
	p := s.progress.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	return onboarding.StaffStepState{
		Staff:           p.Staff,
		Availabilities:  p.Availabilities,
		SubTab:          s.subTab,
		SelectedStaffID: s.selected,
		Usage:           c,
	}
}

// SelectSubTab cambia de sub-pestaña. La de disponibilidad exige al menos un staff.
func (s *StaffStep) SelectSubTab(tab onboarding.StaffSubTab, staffID string) error {
	st := s.State()
	if tab == onboarding.SubTabAvailability && !st.CanEnterAvailability() {
		return domain.ErrStaffRequired
	}
	s.mu.Lock()
	s.subTab = tab
	if staffID != "" {
		s.selected = staffID
	}
	s.mu.Unlock()
	return nil
}

// Add crea un miembro del staff y cambia automáticamente a la sub-pestaña de disponibilidad.
func (s *StaffStep) Add(ctx context.Context, in dto.StaffInput) (*entity.StaffDraft, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := checkLimit(ctx, &s.usage, s.tenants, "miembros del staff", func(u *entity.PlanUsage) entity.UsageCounter { return u.Staff }, s.log); err != nil {
		return nil, err
	}
	outletID, err := s.resolveOutlet(ctx, in.OutletID)
	if err != nil {
		return nil, err
	}
	var intl string
	if in.Phone != "" {
		if intl, err = phone.Normalize(in.Phone); err != nil {
			return nil, domain.NewValidationError("phone", "debe iniciar con 8 y tener entre 8 y 12 dígitos")
		}
	}
	serviceIDs := in.ServiceIDs
	if len(serviceIDs) == 0 {
		for _, p := range s.progress.Snapshot().Products {
			serviceIDs = append(serviceIDs, p.ID)
		}
	}
	created, err := s.staff.Create(ctx, &entity.Staff{
		OutletID:   outletID,
		Name:       strings.TrimSpace(in.Name),
		Position:   in.Position,
		Phone:      intl,
		Email:      strings.TrimSpace(in.Email),
		ServiceIDs: serviceIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("onboarding: crear staff: %w", err)
	}
	draft := entity.StaffDraft{
		ID:         created.ID,
		Name:       created.Name,
		Position:   created.Position,
		Phone:      created.Phone,
		Email:      created.Email,
		OutletID:   created.OutletID,
		ServiceIDs: created.ServiceIDs,
	}
	s.progress.AddStaff(ctx, draft)
	s.usage.increment()
	s.mu.Lock()
	s.subTab = onboarding.SubTabAvailability
	s.selected = draft.ID
	s.mu.Unlock()
	if s.notify != nil {
		s.notify(s.State())
	}
	return &draft, nil
}

// resolveOutlet sede del formulario, o la primera sede del asistente, o la primera del backend.
func (s *StaffStep) resolveOutlet(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	if outlets := s.progress.Snapshot().Outlets; len(outlets) > 0 {
		return outlets[0].ID, nil
	}
	list, err := s.outlets.List(ctx)
	if err != nil {
		return "", fmt.Errorf("onboarding: listar sedes: %w", err)
	}
	if len(list) == 0 {
		return "", domain.NewValidationError("outlet_id", "primero debe registrar una sede")
	}
	return list[0].ID, nil
}

// AddAvailability crea la disponibilidad semanal del staff seleccionado.
func (s *StaffStep) AddAvailability(ctx context.Context, in dto.AvailabilityInput) (*entity.AvailabilityDraft, error) {
	st := s.State()
	if !st.CanEnterAvailability() {
		return nil, domain.ErrStaffRequired
	}
	verr := &domain.ValidationError{}
	if len(in.Days) == 0 {
		verr.Add("days", "seleccione al menos un día")
	}
	if err := validation.Merge(verr, validation.Struct(in)); err != nil {
		return nil, err
	}
	start, errStart := entity.ClockTime(in.StartTime).Minutes()
	end, errEnd := entity.ClockTime(in.EndTime).Minutes()
	switch {
	case errStart != nil:
		verr.Add("start_time", "debe tener formato HH:MM")
	case errEnd != nil:
		verr.Add("end_time", "debe tener formato HH:MM")
	case end <= start:
		verr.Add("end_time", "debe ser posterior a la hora de inicio")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	staffID := in.StaffID
	if staffID == "" {
		staffID = st.SelectedStaffID
	}
	var member *entity.StaffDraft
	for i := range st.Staff {
		if st.Staff[i].ID == staffID {
			member = &st.Staff[i]
			break
		}
	}
	if member == nil {
		return nil, domain.NewValidationError("staff_id", "seleccione un miembro del staff")
	}
	outletID := in.OutletID
	if outletID == "" {
		outletID = member.OutletID
	}

	created, err := s.availability.CreateWeekly(ctx, &entity.Availability{
		StaffID:        member.ID,
		OutletID:       outletID,
		RecurrenceType: entity.RecurrenceWeekly,
		Days:           uniqueDays(in.Days),
		StartTime:      entity.ClockTime(in.StartTime),
		EndTime:        entity.ClockTime(in.EndTime),
	})
	if err != nil {
		return nil, fmt.Errorf("onboarding: crear disponibilidad: %w", err)
	}
	draft := entity.AvailabilityDraft{
		ID:        created.ID,
		StaffID:   created.StaffID,
		OutletID:  created.OutletID,
		Days:      created.Days,
		StartTime: created.StartTime,
		EndTime:   created.EndTime,
	}
	s.progress.AddAvailability(ctx, draft)
	if s.notify != nil {
		s.notify(s.State())
	}
	return &draft, nil
}

// PositionTemplates cargos sugeridos para el formulario.
func (s *StaffStep) PositionTemplates(ctx context.Context) ([]entity.PositionTemplate, error) {
	return s.staff.PositionTemplates(ctx)
}

func (s *StaffStep) resetSubTab() {
	s.mu.Lock()
	s.subTab, s.selected = onboarding.SubTabStaff, ""
	s.mu.Unlock()
}

func uniqueDays(days []time.Weekday) []time.Weekday {
	seen := make(map[time.Weekday]bool, len(days))
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
