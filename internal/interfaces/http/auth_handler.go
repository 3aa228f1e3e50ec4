package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/clinic-console/internal/application/auth"
	"github.com/jhoicas/clinic-console/internal/application/dto"
)

// AuthHandler maneja el registro público.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar negocio y administrador
// @Description  Valida campos, política de contraseña, confirmación y aceptación de términos antes de llamar al backend
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Negocio + administrador"
// @Success      201   {object}  dto.RegisterResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /console/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	res, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
