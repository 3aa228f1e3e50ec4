package entity

import "time"

// Outlet representa una sede física (clínica/salón) del tenant.
type Outlet struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Phone     string    `json:"phone"` // formato +62…
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
