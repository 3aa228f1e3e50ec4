// Package products implementa la página del catálogo de servicios.
package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/session"
	"github.com/jhoicas/clinic-console/internal/application/softdelete"
	"github.com/jhoicas/clinic-console/internal/application/validation"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/rs/zerolog"
)

const undoSessionKey = "products.undo"

// Service casos de uso del catálogo.
type Service struct {
	services repository.ServiceRepository
	tenants  repository.TenantRepository
	undo     time.Duration
	clock    clock.Clock
	log      zerolog.Logger
}

// NewService construye el servicio.
func NewService(services repository.ServiceRepository, tenants repository.TenantRepository, undo time.Duration, clk clock.Clock, log zerolog.Logger) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{services: services, tenants: tenants, undo: undo, clock: clk, log: log}
}

// List página del catálogo tal como la devuelve el backend.
func (s *Service) List(ctx context.Context, req dto.ProductListRequest) (*repository.ServicePage, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	p := req.Paging()
	page, err := s.services.List(ctx, repository.ServiceQuery{
		Page:     p.Page,
		Size:     p.Size,
		Search:   strings.TrimSpace(req.Search),
		Category: req.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("products: listar: %w", err)
	}
	return page, nil
}

// Create valida, verifica el tope del plan y crea el servicio.
func (s *Service) Create(ctx context.Context, in dto.ProductRequest) (*entity.Service, error) {
	svc, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkLimit(ctx); err != nil {
		return nil, err
	}
	created, err := s.services.Create(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("products: crear: %w", err)
	}
	return created, nil
}

// Update valida y reemplaza el servicio.
func (s *Service) Update(ctx context.Context, id string, in dto.ProductRequest) (*entity.Service, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("id", "es obligatorio")
	}
	svc, err := s.build(in)
	if err != nil {
		return nil, err
	}
	svc.ID = id
	updated, err := s.services.Update(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("products: actualizar %s: %w", id, err)
	}
	return updated, nil
}

// CategoryTemplates categorías sugeridas.
func (s *Service) CategoryTemplates(ctx context.Context) ([]entity.CategoryTemplate, error) {
	list, err := s.services.CategoryTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("products: plantillas de categoría: %w", err)
	}
	return list, nil
}

// checkLimit consulta el uso del plan; si el resumen no está disponible deja
// pasar porque el backend también valida el tope.
func (s *Service) checkLimit(ctx context.Context) error {
	usage, err := s.tenants.Usage(ctx)
	if err != nil || usage == nil {
		s.log.Warn().Err(err).Msg("products: resumen de uso no disponible")
		return nil
	}
	if usage.Services.Reached() {
		return &domain.LimitError{Resource: "servicios", Used: usage.Services.Used, Limit: usage.Services.Limit}
	}
	return nil
}

func (s *Service) build(in dto.ProductRequest) (*entity.Service, error) {
	verr := &domain.ValidationError{}
	if err := validation.Merge(verr, validation.Struct(in)); err != nil {
		return nil, err
	}
	ValidatePricing(verr, in.Pricing, s.clock.Now())
	if !verr.Empty() {
		return nil, verr
	}
	currency := strings.ToUpper(in.Pricing.Currency)
	if currency == "" {
		currency = entity.DefaultRegionalSettings().Currency
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &entity.Service{
		Name:            strings.TrimSpace(in.Name),
		Category:        in.Category,
		Description:     strings.TrimSpace(in.Description),
		DurationMinutes: in.DurationMinutes,
		IsActive:        active,
		Pricing: entity.ServicePricing{
			BasePrice:             in.Pricing.BasePrice,
			Currency:              currency,
			OutletPrices:          in.Pricing.OutletPrices,
			PromotionalPrice:      in.Pricing.PromotionalPrice,
			PromotionalValidUntil: in.Pricing.PromotionalValidUntil,
		},
	}, nil
}

// ValidatePricing reglas de precios: base y precios por sede positivos; la
// promoción va con su vigencia, es menor que la base y vence en el futuro.
func ValidatePricing(verr *domain.ValidationError, p dto.PricingInput, now time.Time) {
	if !p.BasePrice.IsPositive() {
		verr.Add("pricing.base_price", "debe ser mayor que 0")
	}
	for outletID, price := range p.OutletPrices {
		if !price.IsPositive() {
			verr.Add("pricing.outlet_prices."+outletID, "debe ser mayor que 0")
		}
	}
	switch {
	case p.PromotionalPrice == nil && p.PromotionalValidUntil != nil:
		verr.Add("pricing.promotional_price", "es obligatorio si hay vigencia de promoción")
	case p.PromotionalPrice != nil:
		if !p.PromotionalPrice.IsPositive() {
			verr.Add("pricing.promotional_price", "debe ser mayor que 0")
		} else if p.BasePrice.IsPositive() && !p.PromotionalPrice.LessThan(p.BasePrice) {
			verr.Add("pricing.promotional_price", "debe ser menor que el precio base")
		}
		switch {
		case p.PromotionalValidUntil == nil:
			verr.Add("pricing.promotional_valid_until", "es obligatorio con precio promocional")
		case !p.PromotionalValidUntil.After(now):
			verr.Add("pricing.promotional_valid_until", "debe ser una fecha futura")
		}
	}
}

func (s *Service) window(sess *session.Session) (*softdelete.Window, error) {
	return session.Value(sess, undoSessionKey, func() (*softdelete.Window, error) {
		log := s.log.With().Str("tenant_id", sess.Principal.TenantID).Logger()
		return softdelete.NewWindow("products", s.undo, s.services.Delete, s.services.Restore, s.clock, log), nil
	})
}

// Delete borrado lógico con ventana de deshacer.
func (s *Service) Delete(ctx context.Context, sess *session.Session, id, label string) (*softdelete.Pending, error) {
	w, err := s.window(sess)
	if err != nil {
		return nil, err
	}
	return w.Delete(ctx, id, label)
}

// Undo restaura el servicio de la ventana activa.
func (s *Service) Undo(ctx context.Context, sess *session.Session, token string) (*softdelete.Pending, error) {
	w, err := s.window(sess)
	if err != nil {
		return nil, err
	}
	return w.Undo(ctx, token)
}
