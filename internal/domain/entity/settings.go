package entity

import "time"

// TenantSettingsDocumentVersion versión actual del documento de configuración.
// La versión 1 corresponde a las llaves sueltas por sección.
const TenantSettingsDocumentVersion = 2

// Secciones de configuración del tenant.
const (
	SectionBusiness      = "business"
	SectionNotifications = "notifications"
	SectionPolicies      = "policies"
	SectionSecurity      = "security"
	SectionBranding      = "branding"
	SectionRegional      = "regional"
)

// SettingsSections todas las secciones en orden de presentación.
var SettingsSections = []string{
	SectionBusiness, SectionNotifications, SectionPolicies,
	SectionSecurity, SectionBranding, SectionRegional,
}

// BusinessInfo datos comerciales del tenant.
type BusinessInfo struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	LegalName   string `json:"legal_name" validate:"omitempty,max=160"`
	Phone       string `json:"phone" validate:"required,idphone"`
	Email       string `json:"email" validate:"required,email"`
	Address     string `json:"address" validate:"omitempty,max=300"`
	Website     string `json:"website" validate:"omitempty,url"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// NotificationSettings banderas de notificación.
type NotificationSettings struct {
	EmailEnabled        bool `json:"email_enabled"`
	SMSEnabled          bool `json:"sms_enabled"`
	WhatsAppEnabled     bool `json:"whatsapp_enabled"`
	BookingConfirmation bool `json:"booking_confirmation"`
	BookingReminder     bool `json:"booking_reminder"`
	ReminderHoursBefore int  `json:"reminder_hours_before" validate:"min=0,max=168"`
	MarketingEnabled    bool `json:"marketing_enabled"`
}

// PolicySettings umbrales de políticas de reserva.
type PolicySettings struct {
	CancellationHours    int  `json:"cancellation_hours" validate:"min=0,max=168"`
	LateToleranceMinutes int  `json:"late_tolerance_minutes" validate:"min=0,max=120"`
	NoShowFeePercent     int  `json:"no_show_fee_percent" validate:"min=0,max=100"`
	DepositPercent       int  `json:"deposit_percent" validate:"min=0,max=100"`
	MaxAdvanceDays       int  `json:"max_advance_days" validate:"min=1,max=365"`
	AllowWalkIn          bool `json:"allow_walk_in"`
}

// SecuritySettings banderas de seguridad; el PIN de gerente se guarda como hash bcrypt.
type SecuritySettings struct {
	TwoFactorRequired     bool   `json:"two_factor_required"`
	SessionTimeoutMinutes int    `json:"session_timeout_minutes" validate:"min=5,max=1440"`
	ManagerPINRequired    bool   `json:"manager_pin_required"`
	ManagerPINHash        string `json:"manager_pin_hash,omitempty"`
}

// BrandingSettings colores del tema y logo.
type BrandingSettings struct {
	PrimaryColor   string `json:"primary_color" validate:"omitempty,len=7,hexcolor"`
	SecondaryColor string `json:"secondary_color" validate:"omitempty,len=7,hexcolor"`
	AccentColor    string `json:"accent_color" validate:"omitempty,len=7,hexcolor"`
	LogoURL        string `json:"logo_url" validate:"omitempty,url"`
}

// RegionalSettings preferencias regionales.
type RegionalSettings struct {
	Currency   string `json:"currency" validate:"required,len=3"`
	Timezone   string `json:"timezone" validate:"required"`
	DateFormat string `json:"date_format" validate:"required,oneof=DD/MM/YYYY MM/DD/YYYY YYYY-MM-DD"`
	Language   string `json:"language" validate:"required"`
}

// DefaultRegionalSettings valores por defecto del mercado local.
func DefaultRegionalSettings() RegionalSettings {
	return RegionalSettings{Currency: "IDR", Timezone: "Asia/Jakarta", DateFormat: "DD/MM/YYYY", Language: "id"}
}

// DefaultTenantSettings documento inicial de un tenant sin configuración guardada.
func DefaultTenantSettings() TenantSettingsDocument {
	return TenantSettingsDocument{
		Version: TenantSettingsDocumentVersion,
		Notifications: NotificationSettings{
			EmailEnabled:        true,
			WhatsAppEnabled:     true,
			BookingConfirmation: true,
			BookingReminder:     true,
			ReminderHoursBefore: 24,
		},
		Policies: PolicySettings{
			CancellationHours:    24,
			LateToleranceMinutes: 15,
			MaxAdvanceDays:       60,
			AllowWalkIn:          true,
		},
		Security: SecuritySettings{SessionTimeoutMinutes: 60},
		Branding: BrandingSettings{PrimaryColor: "#00467F"},
		Regional: DefaultRegionalSettings(),
	}
}

// TenantSettingsDocument documento único y versionado de configuración del tenant.
type TenantSettingsDocument struct {
	Version       int                  `json:"version"`
	Business      BusinessInfo         `json:"business"`
	Notifications NotificationSettings `json:"notifications"`
	Policies      PolicySettings       `json:"policies"`
	Security      SecuritySettings     `json:"security"`
	Branding      BrandingSettings     `json:"branding"`
	Regional      RegionalSettings     `json:"regional"`
	UpdatedAt     map[string]time.Time `json:"updated_at,omitempty"`
}
