package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OnboardingDocumentVersion versión actual del documento persistido del asistente.
// La versión 1 corresponde a las dos llaves sueltas (snapshot + marca de completado).
const OnboardingDocumentVersion = 2

// OutletDraft sede ya creada en el backend durante el asistente.
type OutletDraft struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
}

// UserDraft usuario creado durante el asistente.
type UserDraft struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ProductDraft servicio creado durante el asistente.
type ProductDraft struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	DurationMinutes int             `json:"duration_minutes"`
	BasePrice       decimal.Decimal `json:"base_price"`
	Currency        string          `json:"currency"`
}

// StaffDraft miembro del staff creado durante el asistente.
type StaffDraft struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Position   string   `json:"position"`
	Phone      string   `json:"phone,omitempty"`
	Email      string   `json:"email,omitempty"`
	OutletID   string   `json:"outlet_id"`
	ServiceIDs []string `json:"service_ids"`
}

// AvailabilityDraft disponibilidad semanal creada durante el asistente.
type AvailabilityDraft struct {
	ID        string         `json:"id"`
	StaffID   string         `json:"staff_id"`
	OutletID  string         `json:"outlet_id"`
	Days      []time.Weekday `json:"days"`
	StartTime ClockTime      `json:"start_time"`
	EndTime   ClockTime      `json:"end_time"`
}

// OnboardingProgress datos acumulados del asistente y su cursor.
type OnboardingProgress struct {
	Outlets        []OutletDraft       `json:"outlets"`
	Users          []UserDraft         `json:"users"`
	Products       []ProductDraft      `json:"products"`
	Staff          []StaffDraft        `json:"staff"`
	Availabilities []AvailabilityDraft `json:"availabilities"`
	CurrentStep    int                 `json:"current_step"`
	IsCompleted    bool                `json:"is_completed"`
}

// HasStagedData informa si hay algún registro acumulado.
func (p OnboardingProgress) HasStagedData() bool {
	return len(p.Outlets)+len(p.Users)+len(p.Products)+len(p.Staff)+len(p.Availabilities) > 0
}

// Clone copia profunda de las listas para exponer el estado sin compartir memoria.
func (p OnboardingProgress) Clone() OnboardingProgress {
	out := p
	out.Outlets = append([]OutletDraft(nil), p.Outlets...)
	out.Users = append([]UserDraft(nil), p.Users...)
	out.Products = append([]ProductDraft(nil), p.Products...)
	out.Staff = append([]StaffDraft(nil), p.Staff...)
	out.Availabilities = append([]AvailabilityDraft(nil), p.Availabilities...)
	return out
}

// CompletionMarker marca de asistente completado.
type CompletionMarker struct {
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at"`
}

// OnboardingDocument documento único y versionado del asistente por tenant.
// Progress es el snapshot de trabajo; se limpia (nil) al completar.
type OnboardingDocument struct {
	Version    int                 `json:"version"`
	Progress   *OnboardingProgress `json:"progress,omitempty"`
	Completion *CompletionMarker   `json:"completion,omitempty"`
}

// OnboardingFlag estado de completado registrado en el backend.
type OnboardingFlag struct {
	OperationalOnboardingCompleted bool       `json:"operationalOnboardingCompleted"`
	CompletedAt                    *time.Time `json:"completedAt,omitempty"`
}
