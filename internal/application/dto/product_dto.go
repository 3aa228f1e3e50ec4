package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductListRequest filtros del catálogo.
type ProductListRequest struct {
	Page     int    `query:"page"`
	Size     int    `query:"size" validate:"max=100"`
	Search   string `query:"search"`
	Category string `query:"category"`
}

// PricingInput precios del servicio.
type PricingInput struct {
	BasePrice             decimal.Decimal            `json:"base_price"`
	Currency              string                     `json:"currency" validate:"omitempty,len=3"`
	OutletPrices          map[string]decimal.Decimal `json:"outlet_prices"`
	PromotionalPrice      *decimal.Decimal           `json:"promotional_price"`
	PromotionalValidUntil *time.Time                 `json:"promotional_valid_until"`
}

// ProductRequest alta/edición de un servicio del catálogo.
type ProductRequest struct {
	Name            string       `json:"name" validate:"required,min=2,max=120"`
	Category        string       `json:"category" validate:"required"`
	Description     string       `json:"description" validate:"omitempty,max=1000"`
	DurationMinutes int          `json:"duration_minutes" validate:"min=5,max=480"`
	IsActive        *bool        `json:"is_active"`
	Pricing         PricingInput `json:"pricing"`
}

// Paging normaliza la paginación solicitada.
func (r ProductListRequest) Paging() PageRequest {
	p := PageRequest{Page: r.Page, Size: r.Size}
	p.DefaultPage()
	return p
}
