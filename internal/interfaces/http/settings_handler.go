package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/settings"
	"github.com/jhoicas/clinic-console/internal/application/validation"
	"github.com/jhoicas/clinic-console/internal/domain"
)

// SettingsHandler configuración del tenant por secciones.
type SettingsHandler struct {
	svc *settings.Service
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(svc *settings.Service) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get godoc
// @Summary      Leer la configuración del tenant
// @Description  Documento versionado con las seis secciones; el hash del PIN nunca se devuelve
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SettingsView
// @Router       /console/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	view, err := h.svc.View(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Save godoc
// @Summary      Guardar una sección
// @Description  business | notifications | policies | security | branding | regional. Guardar una sección no toca las demás.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        section  path  string  true  "Sección"
// @Success      200  {object}  object
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /console/settings/{section} [put]
func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	saved, err := h.svc.Save(c.UserContext(), p, c.Params("section"), c.Body())
	if err != nil {
		return err
	}
	return c.JSON(saved)
}

// VerifyPIN POST /console/settings/security/verify-pin
func (h *SettingsHandler) VerifyPIN(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	var in dto.VerifyPINRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := validation.Struct(in); err != nil {
		return err
	}
	valid, err := h.svc.VerifyPIN(c.UserContext(), p, in.PIN)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"valid": valid})
}
