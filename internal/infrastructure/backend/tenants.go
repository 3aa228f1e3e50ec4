package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
)

// TenantRepository tenant autenticado, uso del plan, marca de onboarding y alta.
type TenantRepository struct{ c *Client }

// BookingRepository citas sobre /api/bookings.
type BookingRepository struct{ c *Client }

var (
	_ repository.TenantRepository  = (*TenantRepository)(nil)
	_ repository.BookingRepository = (*BookingRepository)(nil)
)

// Tenants repositorio del tenant.
func (c *Client) Tenants() *TenantRepository { return &TenantRepository{c: c} }

// Bookings repositorio de citas.
func (c *Client) Bookings() *BookingRepository { return &BookingRepository{c: c} }

func (r *TenantRepository) Current(ctx context.Context) (*entity.Tenant, error) {
	var out entity.Tenant
	if err := r.c.call(ctx, http.MethodGet, "/api/tenants/me", nil, nil, &out, "load tenant"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Usage resumen de uso del plan. Un límite ausente o 0 significa sin tope.
func (r *TenantRepository) Usage(ctx context.Context) (*entity.PlanUsage, error) {
	var out entity.PlanUsage
	if err := r.c.call(ctx, http.MethodGet, "/api/usage/summary", nil, nil, &out, "load usage summary"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *TenantRepository) OnboardingFlag(ctx context.Context) (*entity.OnboardingFlag, error) {
	var out entity.OnboardingFlag
	if err := r.c.call(ctx, http.MethodGet, "/api/settings/operational-onboarding", nil, nil, &out, "load onboarding status"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *TenantRepository) MarkOnboardingCompleted(ctx context.Context) error {
	now := time.Now().UTC()
	body := entity.OnboardingFlag{OperationalOnboardingCompleted: true, CompletedAt: &now}
	return r.c.call(ctx, http.MethodPost, "/api/settings/operational-onboarding", nil, body, nil, "mark onboarding completed")
}

// Register alta pública: no lleva token.
func (r *TenantRepository) Register(ctx context.Context, in entity.Registration) (*entity.RegistrationResult, error) {
	req := r.c.http.R().SetContext(ctx).SetBody(in)
	resp, err := r.c.do(req, http.MethodPost, "/api/auth/register", "register")
	if err != nil {
		return nil, err
	}
	var out entity.RegistrationResult
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, &domain.BackendError{Status: resp.StatusCode(), Message: fmt.Sprintf("failed to register: respuesta inválida: %v", err)}
	}
	return &out, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *entity.Booking) (*entity.Booking, error) {
	out := *b
	if err := r.c.call(ctx, http.MethodPost, "/api/bookings", nil, b, &out, "create booking"); err != nil {
		return nil, err
	}
	return &out, nil
}
