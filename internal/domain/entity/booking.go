package entity

import "time"

// BookingSourceWalkIn reserva creada para un cliente presente en la sede.
const BookingSourceWalkIn = "walk_in"

// Booking cita registrada en el backend.
type Booking struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	ServiceID  string    `json:"service_id"`
	StaffID    string    `json:"staff_id"`
	OutletID   string    `json:"outlet_id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	StartTime  ClockTime `json:"start_time"`
	EndTime    ClockTime `json:"end_time"`
	Source     string    `json:"source"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
