package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrBusy                 = errors.New("hay una operación en curso para este paso")
	ErrStepNotReady         = errors.New("el paso actual aún no está completo")
	ErrConfirmationRequired = errors.New("se requiere confirmación explícita")
	ErrNoUndoPending        = errors.New("no hay eliminación pendiente para deshacer")
	ErrStaffRequired        = errors.New("primero debe registrar al menos un miembro del staff")
	ErrCustomerUnresolved   = errors.New("el cliente de la reserva no está confirmado")
	ErrSlotUnavailable      = errors.New("el horario seleccionado no está disponible")
)

// ValidationError agrupa errores por campo. Se usa tanto para la validación local
// como para los rechazos del backend con errores estructurados, de modo que el
// usuario vea una sola superficie de errores sin importar el origen.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye un ValidationError con un único campo.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add registra un error para el campo; conserva el primer mensaje recibido.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Empty indica si no hay errores registrados.
func (e *ValidationError) Empty() bool { return e == nil || len(e.Fields) == 0 }

// OrNil devuelve nil cuando no hay errores, para poder retornarlo como error.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validación: " + strings.Join(parts, "; ")
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// LimitError indica que el plan de suscripción no permite crear más recursos del tipo.
// Se detecta antes de llamar al backend.
type LimitError struct {
	Resource string
	Used     int
	Limit    int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("el plan actual permite máximo %d %s (en uso: %d)", e.Limit, e.Resource, e.Used)
}

// BackendError representa un fallo del backend sin errores por campo, o un fallo de red.
type BackendError struct {
	Status  int // 0 = sin respuesta (red, timeout)
	Message string
}

func (e *BackendError) Error() string {
	if e.Status == 0 {
		return "backend: " + e.Message
	}
	return fmt.Sprintf("backend (HTTP %d): %s", e.Status, e.Message)
}

// Unwrap traduce los códigos HTTP conocidos a errores de dominio.
func (e *BackendError) Unwrap() error {
	switch e.Status {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	}
	return nil
}
