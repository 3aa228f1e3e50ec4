package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/rs/zerolog"
)

// sentinel código HTTP y código de error de cada error de dominio.
type sentinel struct {
	err    error
	status int
	code   string
}

// sentinels en orden de prioridad para errors.Is.
var sentinels = []sentinel{
	{domain.ErrBusy, fiber.StatusConflict, "BUSY"},
	{domain.ErrStepNotReady, fiber.StatusConflict, "STEP_NOT_READY"},
	{domain.ErrStaffRequired, fiber.StatusConflict, "STAFF_REQUIRED"},
	{domain.ErrCustomerUnresolved, fiber.StatusConflict, "CUSTOMER_UNRESOLVED"},
	{domain.ErrSlotUnavailable, fiber.StatusConflict, "SLOT_UNAVAILABLE"},
	{domain.ErrConfirmationRequired, fiber.StatusPreconditionRequired, "CONFIRMATION_REQUIRED"},
	{domain.ErrNoUndoPending, fiber.StatusNotFound, "NO_UNDO_PENDING"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
}

// NewErrorHandler traduce los errores de los handlers a dto.ErrorResponse:
// validación por campo (422), tope del plan con enlace de mejora (402),
// errores de dominio y fallos del backend (502).
func NewErrorHandler(upgradeURL string, log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := describe(err, upgradeURL)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Int("status", status).Msg("http: error")
		}
		return c.Status(status).JSON(body)
	}
}

func describe(err error, upgradeURL string) (int, dto.ErrorResponse) {
	var (
		verr *domain.ValidationError
		lerr *domain.LimitError
		berr *domain.BackendError
		ferr *fiber.Error
	)
	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "VALIDATION", Message: "revise los campos marcados", Fields: verr.Fields}
	case errors.As(err, &lerr):
		return fiber.StatusPaymentRequired, dto.ErrorResponse{Code: "PLAN_LIMIT", Message: lerr.Error(), UpgradeURL: upgradeURL}
	case errors.As(err, &ferr):
		code := "HTTP_ERROR"
		switch ferr.Code {
		case fiber.StatusBadRequest:
			code = "INVALID_BODY"
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		}
		return ferr.Code, dto.ErrorResponse{Code: code, Message: ferr.Message}
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.status, dto.ErrorResponse{Code: s.code, Message: err.Error()}
		}
	}
	if errors.As(err, &berr) {
		code := "BACKEND_ERROR"
		if berr.Status == 0 {
			code = "BACKEND_UNAVAILABLE"
		}
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: code, Message: berr.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
}
