package entity

import (
	"fmt"
	"time"
)

// RecurrenceWeekly única recurrencia que usa la consola.
const RecurrenceWeekly = "weekly"

// APIWeekday día de la semana en el formato del backend: 0=lunes … 6=domingo.
// La consola trabaja con time.Weekday (0=domingo … 6=sábado) y convierte en el borde.
type APIWeekday int

// ToAPIWeekday convierte un día de la consola al formato del backend.
func ToAPIWeekday(d time.Weekday) APIWeekday {
	return APIWeekday((int(d) + 6) % 7)
}

// Weekday convierte el día del backend al formato de la consola.
func (d APIWeekday) Weekday() time.Weekday {
	return time.Weekday((int(d) + 1) % 7)
}

// Availability ventana recurrente de atención de un miembro del staff.
type Availability struct {
	ID             string         `json:"id"`
	StaffID        string         `json:"staff_id"`
	OutletID       string         `json:"outlet_id"`
	RecurrenceType string         `json:"recurrence_type"`
	Days           []time.Weekday `json:"days"`
	StartTime      ClockTime      `json:"start_time"`
	EndTime        ClockTime      `json:"end_time"`
}

// ClockTime hora del día en formato HH:MM.
type ClockTime string

// Minutes devuelve los minutos desde la medianoche.
func (c ClockTime) Minutes() (int, error) {
	t, err := time.Parse("15:04", string(c))
	if err != nil {
		return 0, fmt.Errorf("hora inválida %q: se espera HH:MM", string(c))
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Slot franja de la grilla de disponibilidad.
type Slot struct {
	StartTime   ClockTime `json:"start_time"`
	EndTime     ClockTime `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
}

// AvailabilityGrid franjas por fecha (YYYY-MM-DD) calculadas por el backend.
type AvailabilityGrid map[string][]Slot

// FirstAvailable devuelve la primera franja libre en orden cronológico de fechas.
func (g AvailabilityGrid) FirstAvailable(dates []string) (string, Slot, bool) {
	for _, d := range dates {
		for _, s := range g[d] {
			if s.IsAvailable {
				return d, s, true
			}
		}
	}
	return "", Slot{}, false
}

// AvailabilityCheck respuesta de verificación puntual.
type AvailabilityCheck struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}
