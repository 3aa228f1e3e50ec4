package entity

import "time"

// Tenant representa un negocio (clínica o salón) del sistema multi-tenant.
type Tenant struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// UsageCounter uso y tope de un recurso según el plan. Limit <= 0 significa sin tope.
type UsageCounter struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

// Reached informa si ya no se pueden crear más recursos de este tipo.
func (u UsageCounter) Reached() bool {
	return u.Limit > 0 && u.Used >= u.Limit
}

// PlanUsage resumen de uso del plan de suscripción del tenant.
type PlanUsage struct {
	Plan     string       `json:"plan"`
	Outlets  UsageCounter `json:"outlets"`
	Services UsageCounter `json:"services"`
	Staff    UsageCounter `json:"staff"`
}

// Registration datos del alta de un negocio y su administrador.
type Registration struct {
	BusinessName    string    `json:"business_name"`
	BusinessPhone   string    `json:"business_phone"`
	BusinessEmail   string    `json:"business_email"`
	BusinessType    string    `json:"business_type"`
	AdminName       string    `json:"admin_name"`
	AdminEmail      string    `json:"admin_email"`
	AdminPhone      string    `json:"admin_phone"`
	Password        string    `json:"password"`
	AcceptTerms     bool      `json:"accept_terms"`
	AcceptPrivacy   bool      `json:"accept_privacy"`
	TermsAcceptedAt time.Time `json:"terms_accepted_at"`
}

// RegistrationResult respuesta del backend al alta.
type RegistrationResult struct {
	Tenant      Tenant `json:"tenant"`
	User        User   `json:"user"`
	AccessToken string `json:"access_token,omitempty"`
}
