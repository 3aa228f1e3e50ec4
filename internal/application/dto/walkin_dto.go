package dto

import (
	"time"

	"github.com/jhoicas/clinic-console/internal/domain/entity"
)

// LookupStatus estado de la búsqueda de cliente por teléfono.
type LookupStatus string

const (
	LookupIdle      LookupStatus = "idle"
	LookupSearching LookupStatus = "searching"
	LookupFound     LookupStatus = "found"
	LookupNotFound  LookupStatus = "not_found"
	LookupFailed    LookupStatus = "error"
)

// WalkInSearchRequest número tecleado en el mostrador (nacional o +62).
type WalkInSearchRequest struct {
	Phone string `json:"phone"`
}

// WalkInLookupView estado actual de la búsqueda de la sesión.
type WalkInLookupView struct {
	Status    LookupStatus     `json:"status"`
	Phone     string           `json:"phone,omitempty"`
	Customer  *entity.Customer `json:"customer,omitempty"`
	Confirmed bool             `json:"confirmed"`
	Error     string           `json:"error,omitempty"`
}

// WalkInCustomerInput alta del cliente presente. Confirm debe venir en true:
// el perfil nuevo solo se crea con confirmación explícita.
type WalkInCustomerInput struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" validate:"omitempty,email"`
	Gender  string `json:"gender" validate:"omitempty,oneof=male female other"`
	Notes   string `json:"notes" validate:"omitempty,max=1000"`
	Confirm bool   `json:"confirm"`
}

// WalkInGridRequest consulta de la grilla de disponibilidad.
type WalkInGridRequest struct {
	ServiceID           string `query:"service_id" validate:"required"`
	StaffID             string `query:"staff_id"`
	OutletID            string `query:"outlet_id" validate:"required"`
	StartDate           string `query:"start_date" validate:"required,datetime=2006-01-02"`
	NumDays             int    `query:"num_days" validate:"omitempty,min=1,max=14"`
	SlotIntervalMinutes int    `query:"slot_interval_minutes" validate:"omitempty,min=5,max=240"`
}

// WalkInGridResponse grilla por fecha con la primera franja libre sugerida.
type WalkInGridResponse struct {
	Dates     []string                `json:"dates"`
	Grid      entity.AvailabilityGrid `json:"grid"`
	Suggested *SuggestedSlot          `json:"suggested,omitempty"`
}

// SuggestedSlot primera franja disponible.
type SuggestedSlot struct {
	Date string      `json:"date"`
	Slot entity.Slot `json:"slot"`
}

// WalkInBookingRequest reserva para el cliente resuelto en la sesión.
type WalkInBookingRequest struct {
	ServiceID string `json:"service_id" validate:"required"`
	StaffID   string `json:"staff_id" validate:"required"`
	OutletID  string `json:"outlet_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Notes     string `json:"notes" validate:"omitempty,max=500"`
}

// BookingSlip datos del comprobante impreso de una reserva walk-in.
type BookingSlip struct {
	BusinessName  string    `json:"business_name"`
	BusinessPhone string    `json:"business_phone,omitempty"`
	BookingID     string    `json:"booking_id"`
	Date          string    `json:"date"` // ya formateada según la configuración regional
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	ServiceName   string    `json:"service_name"`
	StaffName     string    `json:"staff_name"`
	OutletName    string    `json:"outlet_name"`
	OutletAddress string    `json:"outlet_address,omitempty"`
	Price         string    `json:"price"`
	Notes         string    `json:"notes,omitempty"`
	IssuedAt      time.Time `json:"issued_at"`
}

// WalkInBookingResponse reserva creada y su comprobante.
type WalkInBookingResponse struct {
	Booking *entity.Booking `json:"booking"`
	Slip    BookingSlip     `json:"slip"`
}
