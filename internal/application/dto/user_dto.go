package dto

// RegisterRequest alta pública de un negocio y su administrador.
type RegisterRequest struct {
	BusinessName    string `json:"business_name" validate:"required,min=2,max=120"`
	BusinessPhone   string `json:"business_phone" validate:"required,idphone"`
	BusinessEmail   string `json:"business_email" validate:"required,email"`
	BusinessType    string `json:"business_type" validate:"required,oneof=clinic salon spa barbershop other"`
	AdminName       string `json:"admin_name" validate:"required,min=2,max=120"`
	AdminEmail      string `json:"admin_email" validate:"required,email"`
	AdminPhone      string `json:"admin_phone" validate:"omitempty,idphone"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	AcceptTerms     bool   `json:"accept_terms"`
	AcceptPrivacy   bool   `json:"accept_privacy"`
}

// RegisterResponse resultado del alta.
type RegisterResponse struct {
	TenantID    string `json:"tenant_id"`
	TenantSlug  string `json:"tenant_slug"`
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token,omitempty"`
}
