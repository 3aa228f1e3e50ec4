package dto

import (
	"time"

	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CustomerListRequest filtros del listado. Search y las fechas viajan al backend;
// Segment y Text filtran localmente la página recibida.
type CustomerListRequest struct {
	Page        int    `query:"page"`
	Size        int    `query:"size" validate:"max=100"`
	Search      string `query:"search"`
	CreatedFrom string `query:"created_from" validate:"omitempty,datetime=2006-01-02"`
	CreatedTo   string `query:"created_to" validate:"omitempty,datetime=2006-01-02"`
	Segment     string `query:"segment" validate:"omitempty,oneof=new loyal vip inactive"`
	Text        string `query:"text"`
}

// CustomerInput formulario de alta/edición.
type CustomerInput struct {
	Name      string     `json:"name" validate:"required,min=2,max=120"`
	Phone     string     `json:"phone" validate:"required,idphone"`
	Email     string     `json:"email" validate:"omitempty,email"`
	Gender    string     `json:"gender" validate:"omitempty,oneof=male female other"`
	BirthDate *time.Time `json:"birth_date"`
	Notes     string     `json:"notes" validate:"omitempty,max=1000"`
}

// CustomerView cliente con sus segmentos derivados.
type CustomerView struct {
	entity.Customer
	Segments []string `json:"segments"`
}

// CustomerSummary estadísticas calculadas sobre la página recibida.
type CustomerSummary struct {
	Count       int             `json:"count"`
	New         int             `json:"new"`
	Loyal       int             `json:"loyal"`
	VIP         int             `json:"vip"`
	Inactive    int             `json:"inactive"`
	TotalVisits int             `json:"total_visits"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}

// CustomerListResponse página de clientes. Statistics es null si el resumen
// del backend no estuvo disponible.
type CustomerListResponse struct {
	Items      []CustomerView            `json:"items"`
	Page       PageResponse              `json:"page"`
	Summary    CustomerSummary           `json:"summary"`
	Statistics entity.CustomerStatistics `json:"statistics"`
}

// Paging normaliza la paginación solicitada.
func (r CustomerListRequest) Paging() PageRequest {
	p := PageRequest{Page: r.Page, Size: r.Size}
	p.DefaultPage()
	return p
}
