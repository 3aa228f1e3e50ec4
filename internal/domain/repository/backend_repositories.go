package repository

import (
	"context"

	"github.com/jhoicas/clinic-console/internal/domain/entity"
)

// Los repositorios de este archivo son puertos sobre la API REST del backend.
// El token del usuario viaja en el contexto (domain.WithPrincipal).

// OutletRepository sedes del tenant.
type OutletRepository interface {
	List(ctx context.Context) ([]entity.Outlet, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, outlet *entity.Outlet) (*entity.Outlet, error)
}

// UserRepository usuarios administrativos del tenant.
type UserRepository interface {
	Count(ctx context.Context) (int, error)
}

// ServiceQuery filtros del listado de servicios.
type ServiceQuery struct {
	Page     int
	Size     int
	Search   string
	Category string
}

// ServicePage página de servicios.
type ServicePage struct {
	Items []entity.Service `json:"items"`
	Total int              `json:"total"`
	Pages int              `json:"pages"`
}

// ServiceRepository catálogo de productos/servicios.
type ServiceRepository interface {
	List(ctx context.Context, q ServiceQuery) (*ServicePage, error)
	Get(ctx context.Context, id string) (*entity.Service, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, svc *entity.Service) (*entity.Service, error)
	Update(ctx context.Context, svc *entity.Service) (*entity.Service, error)
	// Delete hace un borrado lógico (permanent=false); Restore lo revierte.
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	CategoryTemplates(ctx context.Context) ([]entity.CategoryTemplate, error)
}

// StaffRepository profesionales del tenant.
type StaffRepository interface {
	List(ctx context.Context) ([]entity.Staff, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, staff *entity.Staff) (*entity.Staff, error)
	PositionTemplates(ctx context.Context) ([]entity.PositionTemplate, error)
}

// GridQuery parámetros de la grilla de disponibilidad.
type GridQuery struct {
	ServiceID           string
	StaffID             string
	OutletID            string
	StartDate           string // YYYY-MM-DD
	NumDays             int
	SlotIntervalMinutes int
}

// CheckQuery parámetros de la verificación puntual de disponibilidad.
type CheckQuery struct {
	StaffID   string
	Date      string
	StartTime entity.ClockTime
	EndTime   entity.ClockTime
	ServiceID string
}

// AvailabilityRepository disponibilidad del staff.
type AvailabilityRepository interface {
	CreateWeekly(ctx context.Context, a *entity.Availability) (*entity.Availability, error)
	Grid(ctx context.Context, q GridQuery) (entity.AvailabilityGrid, error)
	Check(ctx context.Context, q CheckQuery) (*entity.AvailabilityCheck, error)
}

// CustomerQuery filtros del listado de clientes.
type CustomerQuery struct {
	Page        int
	Size        int
	Search      string
	CreatedFrom string
	CreatedTo   string
}

// CustomerRepository base de clientes.
type CustomerRepository interface {
	List(ctx context.Context, q CustomerQuery) (*entity.CustomerPage, error)
	Statistics(ctx context.Context) (entity.CustomerStatistics, error)
	// FindByPhone devuelve (nil, nil) si no hay coincidencia.
	FindByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	Create(ctx context.Context, c *entity.Customer) (*entity.Customer, error)
	Update(ctx context.Context, c *entity.Customer) (*entity.Customer, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

// BookingRepository citas.
type BookingRepository interface {
	Create(ctx context.Context, b *entity.Booking) (*entity.Booking, error)
}

// TenantRepository datos del tenant autenticado y su plan.
type TenantRepository interface {
	Current(ctx context.Context) (*entity.Tenant, error)
	Usage(ctx context.Context) (*entity.PlanUsage, error)
	OnboardingFlag(ctx context.Context) (*entity.OnboardingFlag, error)
	MarkOnboardingCompleted(ctx context.Context) error
	Register(ctx context.Context, in entity.Registration) (*entity.RegistrationResult, error)
}
