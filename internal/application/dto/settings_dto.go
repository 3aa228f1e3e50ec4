package dto

import (
	"time"

	"github.com/jhoicas/clinic-console/internal/domain/entity"
)

// SecurityInput formulario de seguridad. ManagerPIN vacío conserva el PIN actual.
type SecurityInput struct {
	TwoFactorRequired     bool   `json:"two_factor_required"`
	SessionTimeoutMinutes int    `json:"session_timeout_minutes" validate:"min=5,max=1440"`
	ManagerPINRequired    bool   `json:"manager_pin_required"`
	ManagerPIN            string `json:"manager_pin" validate:"omitempty,number,min=4,max=6"`
}

// SecurityView sección de seguridad sin el hash del PIN.
type SecurityView struct {
	TwoFactorRequired     bool `json:"two_factor_required"`
	SessionTimeoutMinutes int  `json:"session_timeout_minutes"`
	ManagerPINRequired    bool `json:"manager_pin_required"`
	ManagerPINSet         bool `json:"manager_pin_set"`
}

// NewSecurityView oculta el hash del PIN.
func NewSecurityView(s entity.SecuritySettings) SecurityView {
	return SecurityView{
		TwoFactorRequired:     s.TwoFactorRequired,
		SessionTimeoutMinutes: s.SessionTimeoutMinutes,
		ManagerPINRequired:    s.ManagerPINRequired,
		ManagerPINSet:         s.ManagerPINHash != "",
	}
}

// SettingsView configuración completa del tenant tal como la ve la consola.
type SettingsView struct {
	Version       int                         `json:"version"`
	Business      entity.BusinessInfo         `json:"business"`
	Notifications entity.NotificationSettings `json:"notifications"`
	Policies      entity.PolicySettings       `json:"policies"`
	Security      SecurityView                `json:"security"`
	Branding      entity.BrandingSettings     `json:"branding"`
	Regional      entity.RegionalSettings     `json:"regional"`
	UpdatedAt     map[string]time.Time        `json:"updated_at,omitempty"`
}

// NewSettingsView construye la vista del documento.
func NewSettingsView(doc *entity.TenantSettingsDocument) SettingsView {
	return SettingsView{
		Version:       doc.Version,
		Business:      doc.Business,
		Notifications: doc.Notifications,
		Policies:      doc.Policies,
		Security:      NewSecurityView(doc.Security),
		Branding:      doc.Branding,
		Regional:      doc.Regional,
		UpdatedAt:     doc.UpdatedAt,
	}
}

// VerifyPINRequest verificación del PIN de gerente.
type VerifyPINRequest struct {
	PIN string `json:"pin" validate:"required"`
}
