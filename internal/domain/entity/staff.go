package entity

import "time"

// Staff representa un profesional (terapeuta, estilista) asignado a una sede.
type Staff struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	OutletID   string    `json:"outlet_id"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	ServiceIDs []string  `json:"service_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

// PositionTemplate cargo sugerido por el backend.
type PositionTemplate struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}
