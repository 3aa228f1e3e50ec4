package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTenants struct {
	repository.TenantRepository
	got []entity.Registration
	err error
}

func (f *fakeTenants) Register(_ context.Context, in entity.Registration) (*entity.RegistrationResult, error) {
	f.got = append(f.got, in)
	if f.err != nil {
		return nil, f.err
	}
	return &entity.RegistrationResult{
		Tenant:      entity.Tenant{ID: "t-9", Slug: "klinik-ayu"},
		User:        entity.User{ID: "u-9"},
		AccessToken: "tok-9",
	}, nil
}

var now = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func validRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		BusinessName:    "Klinik Ayu",
		BusinessPhone:   "0812345678",
		BusinessEmail:   "Hola@Ayu.ID",
		BusinessType:    "clinic",
		AdminName:       "Ayu Pratiwi",
		AdminEmail:      "ayu@ayu.id",
		Password:        "Rahasia123",
		ConfirmPassword: "Rahasia123",
		AcceptTerms:     true,
		AcceptPrivacy:   true,
	}
}

func TestRegister_ForwardsNormalized(t *testing.T) {
	tenants := &fakeTenants{}
	uc := NewAuthUseCase(tenants, clock.NewFake(now), zerolog.Nop())

	res, err := uc.Register(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, &dto.RegisterResponse{TenantID: "t-9", TenantSlug: "klinik-ayu", UserID: "u-9", AccessToken: "tok-9"}, res)

	require.Len(t, tenants.got, 1)
	got := tenants.got[0]
	assert.Equal(t, "+62812345678", got.BusinessPhone)
	assert.Equal(t, "hola@ayu.id", got.BusinessEmail)
	assert.Empty(t, got.AdminPhone)
	assert.Equal(t, now, got.TermsAcceptedAt)
}

func TestRegister_RejectsBeforeBackend(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
		field  string
	}{
		{"contraseña corta", func(r *dto.RegisterRequest) { r.Password, r.ConfirmPassword = "Ab1", "Ab1" }, "password"},
		{"sin mayúscula", func(r *dto.RegisterRequest) { r.Password, r.ConfirmPassword = "rahasia123", "rahasia123" }, "password"},
		{"sin dígito", func(r *dto.RegisterRequest) { r.Password, r.ConfirmPassword = "RahasiaAja", "RahasiaAja" }, "password"},
		{"confirmación distinta", func(r *dto.RegisterRequest) { r.ConfirmPassword = "Rahasia124" }, "confirm_password"},
		{"sin términos", func(r *dto.RegisterRequest) { r.AcceptTerms = false }, "accept_terms"},
		{"sin privacidad", func(r *dto.RegisterRequest) { r.AcceptPrivacy = false }, "accept_privacy"},
		{"teléfono inválido", func(r *dto.RegisterRequest) { r.BusinessPhone = "0212345678" }, "business_phone"},
		{"tipo desconocido", func(r *dto.RegisterRequest) { r.BusinessType = "gym" }, "business_type"},
		{"email admin", func(r *dto.RegisterRequest) { r.AdminEmail = "ayu" }, "admin_email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tenants := &fakeTenants{}
			uc := NewAuthUseCase(tenants, clock.NewFake(now), zerolog.Nop())
			req := validRequest()
			tc.mutate(&req)

			_, err := uc.Register(context.Background(), req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
			assert.Empty(t, tenants.got)
		})
	}
}

func TestRegister_BackendFieldErrorsPassThrough(t *testing.T) {
	tenants := &fakeTenants{err: domain.NewValidationError("admin_email", "ya está registrado")}
	uc := NewAuthUseCase(tenants, nil, zerolog.Nop())

	_, err := uc.Register(context.Background(), validRequest())
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ya está registrado", verr.Fields["admin_email"])
}
