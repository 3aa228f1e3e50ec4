package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service representa un producto/servicio del catálogo (tratamiento, corte, etc.).
type Service struct {
	ID              string         `json:"id"`
	TenantID        string         `json:"tenant_id"`
	Name            string         `json:"name"`
	Category        string         `json:"category"`
	Description     string         `json:"description,omitempty"`
	DurationMinutes int            `json:"duration_minutes"`
	Pricing         ServicePricing `json:"pricing"`
	IsActive        bool           `json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ServicePricing precios del servicio; OutletPrices sobreescribe BasePrice por sede.
type ServicePricing struct {
	BasePrice             decimal.Decimal            `json:"base_price"`
	Currency              string                     `json:"currency"`
	OutletPrices          map[string]decimal.Decimal `json:"outlet_prices,omitempty"`
	PromotionalPrice      *decimal.Decimal           `json:"promotional_price,omitempty"`
	PromotionalValidUntil *time.Time                 `json:"promotional_valid_until,omitempty"`
}

// PriceAt devuelve el precio efectivo en la sede y el instante dados.
func (p ServicePricing) PriceAt(outletID string, at time.Time) decimal.Decimal {
	if p.PromotionalPrice != nil && p.PromotionalValidUntil != nil && at.Before(*p.PromotionalValidUntil) {
		return *p.PromotionalPrice
	}
	if price, ok := p.OutletPrices[outletID]; ok {
		return price
	}
	return p.BasePrice
}

// CategoryTemplate categoría sugerida por el backend para el catálogo.
type CategoryTemplate struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}
