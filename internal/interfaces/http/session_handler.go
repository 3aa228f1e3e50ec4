package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/clinic-console/internal/application/session"
	"github.com/jhoicas/clinic-console/internal/domain"
)

// sessionFor sesión de consola del principal autenticado, creada en el primer acceso.
func sessionFor(c *fiber.Ctx, reg *session.Registry) (*session.Session, error) {
	p, ok := GetPrincipal(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return reg.Get(p), nil
}

// bind decodifica el cuerpo JSON en dst.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}
	return nil
}

// SessionHandler ciclo de vida de la sesión de consola.
type SessionHandler struct {
	sessions *session.Registry
}

// NewSessionHandler construye el handler.
func NewSessionHandler(sessions *session.Registry) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Logout godoc
// @Summary      Cerrar la sesión de consola
// @Description  Destruye el estado de la sesión: asistente, ventanas de deshacer y búsquedas pendientes
// @Tags         session
// @Security     Bearer
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /console/session/logout [post]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	h.sessions.End(p)
	return c.SendStatus(fiber.StatusNoContent)
}
