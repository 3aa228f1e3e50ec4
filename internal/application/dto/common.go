package dto

// PageRequest paginación para listados (page empieza en 1).
type PageRequest struct {
	Page int `query:"page" json:"page" validate:"min=0"`
	Size int `query:"size" json:"size" validate:"min=0,max=100"`
}

// DefaultPage aplica valores por defecto si Page/Size son cero.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = 20
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ErrorResponse cuerpo de error HTTP. Fields lleva los errores por campo y
// UpgradeURL la ruta de mejora de plan cuando el error es por tope del plan.
type ErrorResponse struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
	UpgradeURL string            `json:"upgrade_url,omitempty"`
}
