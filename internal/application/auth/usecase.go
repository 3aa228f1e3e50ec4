// Package auth implementa el alta pública de un negocio con su administrador.
// El backend emite el token; la consola valida el formulario y lo reenvía.
package auth

import (
	"context"
	"strings"

	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/validation"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/jhoicas/clinic-console/pkg/phone"
	"github.com/rs/zerolog"
)

// AuthUseCase casos de uso de autenticación pública.
type AuthUseCase struct {
	tenants repository.TenantRepository
	clock   clock.Clock
	log     zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tenants repository.TenantRepository, clk clock.Clock, log zerolog.Logger) *AuthUseCase {
	if clk == nil {
		clk = clock.Real{}
	}
	return &AuthUseCase{tenants: tenants, clock: clk, log: log}
}

// Register valida el formulario completo antes de llamar al backend: campos,
// política de contraseña, confirmación y aceptación de términos y privacidad.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	verr := &domain.ValidationError{}
	if err := validation.Merge(verr, validation.Struct(in)); err != nil {
		return nil, err
	}
	if _, ok := verr.Fields["password"]; !ok {
		if msg, ok := validation.Password(in.Password); !ok {
			verr.Add("password", msg)
		}
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		verr.Add("confirm_password", "no coincide con la contraseña")
	}
	if !in.AcceptTerms {
		verr.Add("accept_terms", "debe aceptar los términos de servicio")
	}
	if !in.AcceptPrivacy {
		verr.Add("accept_privacy", "debe aceptar la política de privacidad")
	}
	if !verr.Empty() {
		return nil, verr
	}

	// Los tags ya garantizan que los teléfonos normalizan.
	businessPhone, _ := phone.Normalize(in.BusinessPhone)
	var adminPhone string
	if in.AdminPhone != "" {
		adminPhone, _ = phone.Normalize(in.AdminPhone)
	}
	res, err := uc.tenants.Register(ctx, entity.Registration{
		BusinessName:    strings.TrimSpace(in.BusinessName),
		BusinessPhone:   businessPhone,
		BusinessEmail:   strings.ToLower(strings.TrimSpace(in.BusinessEmail)),
		BusinessType:    in.BusinessType,
		AdminName:       strings.TrimSpace(in.AdminName),
		AdminEmail:      strings.ToLower(strings.TrimSpace(in.AdminEmail)),
		AdminPhone:      adminPhone,
		Password:        in.Password,
		AcceptTerms:     in.AcceptTerms,
		AcceptPrivacy:   in.AcceptPrivacy,
		TermsAcceptedAt: uc.clock.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", res.Tenant.ID).Str("tenant_slug", res.Tenant.Slug).Msg("auth: negocio registrado")
	return &dto.RegisterResponse{
		TenantID:    res.Tenant.ID,
		TenantSlug:  res.Tenant.Slug,
		UserID:      res.User.ID,
		AccessToken: res.AccessToken,
	}, nil
}
