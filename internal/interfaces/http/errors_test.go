package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", domain.NewValidationError("phone", "requerido"), fiber.StatusUnprocessableEntity, "VALIDATION"},
		{"tope del plan", &domain.LimitError{Resource: "outlets", Used: 1, Limit: 1}, fiber.StatusPaymentRequired, "PLAN_LIMIT"},
		{"cuerpo inválido", fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido"), fiber.StatusBadRequest, "INVALID_BODY"},
		{"ruta inexistente", fiber.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"ocupado envuelto", fmt.Errorf("wizard: %w", domain.ErrBusy), fiber.StatusConflict, "BUSY"},
		{"franja ocupada", fmt.Errorf("walkin: staff ocupado: %w", domain.ErrSlotUnavailable), fiber.StatusConflict, "SLOT_UNAVAILABLE"},
		{"confirmación", domain.ErrConfirmationRequired, fiber.StatusPreconditionRequired, "CONFIRMATION_REQUIRED"},
		{"sin deshacer", domain.ErrNoUndoPending, fiber.StatusNotFound, "NO_UNDO_PENDING"},
		{"backend 404", &domain.BackendError{Status: 404, Message: "no existe"}, fiber.StatusNotFound, "NOT_FOUND"},
		{"backend 401", &domain.BackendError{Status: 401, Message: "expirado"}, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"backend 500", &domain.BackendError{Status: 500, Message: "boom"}, fiber.StatusBadGateway, "BACKEND_ERROR"},
		{"backend caído", &domain.BackendError{Message: "timeout"}, fiber.StatusBadGateway, "BACKEND_UNAVAILABLE"},
		{"desconocido", errors.New("x"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := describe(tc.err, "/settings/subscription")
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestDescribe_CarriesFieldsAndUpgradeURL(t *testing.T) {
	_, body := describe(&domain.ValidationError{Fields: map[string]string{"name": "requerido", "email": "inválido"}}, "/up")
	assert.Equal(t, map[string]string{"name": "requerido", "email": "inválido"}, body.Fields)
	assert.Empty(t, body.UpgradeURL)

	_, body = describe(&domain.LimitError{Resource: "staff", Used: 3, Limit: 3}, "/up")
	assert.Equal(t, "/up", body.UpgradeURL)
	assert.Contains(t, body.Message, "3")
}
