package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la clínica/salón.
type Customer struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"` // formato +62…
	Email       string          `json:"email,omitempty"`
	Gender      string          `json:"gender,omitempty"`
	BirthDate   *time.Time      `json:"birth_date,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	TotalVisits int             `json:"total_visits"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	LastVisitAt *time.Time      `json:"last_visit_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CustomerPage página de clientes devuelta por el backend.
type CustomerPage struct {
	Items []Customer `json:"items"`
	Total int        `json:"total"`
	Pages int        `json:"pages"`
}

// CustomerStatistics resumen agregado calculado por el backend.
type CustomerStatistics map[string]any

// Segmentos derivados del historial del cliente.
const (
	SegmentNew      = "new"
	SegmentLoyal    = "loyal"
	SegmentVIP      = "vip"
	SegmentInactive = "inactive"
)

// Umbrales de segmentación.
const (
	NewCustomerDays   = 30
	LoyalMinVisits    = 5
	InactiveAfterDays = 90
)

// VIPMinSpent gasto acumulado a partir del cual el cliente es VIP (IDR).
var VIPMinSpent = decimal.NewFromInt(5_000_000)

// Genders valores aceptados en Gender.
var Genders = []string{"male", "female", "other"}

// Segments devuelve los segmentos del cliente en now. Un cliente puede estar en
// varios a la vez; inactive incluye a quienes nunca han visitado.
func (c Customer) Segments(now time.Time) []string {
	var out []string
	if !c.CreatedAt.IsZero() && now.Sub(c.CreatedAt) <= NewCustomerDays*24*time.Hour {
		out = append(out, SegmentNew)
	}
	if c.TotalVisits >= LoyalMinVisits {
		out = append(out, SegmentLoyal)
	}
	if c.TotalSpent.GreaterThanOrEqual(VIPMinSpent) {
		out = append(out, SegmentVIP)
	}
	if c.LastVisitAt == nil || now.Sub(*c.LastVisitAt) > InactiveAfterDays*24*time.Hour {
		out = append(out, SegmentInactive)
	}
	return out
}

// HasSegment informa si el cliente pertenece al segmento en now.
func (c Customer) HasSegment(segment string, now time.Time) bool {
	for _, s := range c.Segments(now) {
		if s == segment {
			return true
		}
	}
	return false
}
