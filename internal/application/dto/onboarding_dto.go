package dto

import (
	"time"

	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/onboarding"
	"github.com/shopspring/decimal"
)

// OutletInput formulario del paso de sedes.
type OutletInput struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Address string `json:"address" validate:"required,min=5,max=300"`
	City    string `json:"city" validate:"omitempty,max=80"`
	Phone   string `json:"phone" validate:"required,idphone"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// ProductInput formulario del paso de productos/servicios.
type ProductInput struct {
	Name            string          `json:"name" validate:"required,min=2,max=120"`
	Category        string          `json:"category" validate:"required"`
	Description     string          `json:"description" validate:"omitempty,max=1000"`
	DurationMinutes int             `json:"duration_minutes" validate:"min=5,max=480"`
	BasePrice       decimal.Decimal `json:"base_price"`
	Currency        string          `json:"currency" validate:"omitempty,len=3"`
}

// StaffInput formulario del paso de staff. OutletID vacío = primera sede del asistente.
type StaffInput struct {
	Name       string   `json:"name" validate:"required,min=2,max=120"`
	Position   string   `json:"position" validate:"required"`
	Phone      string   `json:"phone" validate:"omitempty,idphone"`
	Email      string   `json:"email" validate:"omitempty,email"`
	OutletID   string   `json:"outlet_id"`
	ServiceIDs []string `json:"service_ids"`
}

// AvailabilityInput formulario de disponibilidad semanal. Days usa 0=domingo … 6=sábado.
// StaffID vacío = staff seleccionado en la sub-pestaña.
type AvailabilityInput struct {
	StaffID   string         `json:"staff_id"`
	OutletID  string         `json:"outlet_id"`
	Days      []time.Weekday `json:"days" validate:"dive,min=0,max=6"`
	StartTime string         `json:"start_time" validate:"required"`
	EndTime   string         `json:"end_time" validate:"required"`
}

// MountRequest entrada al montar el asistente. InitialStep <= 0 usa el cursor persistido.
type MountRequest struct {
	InitialStep int `json:"initial_step"`
}

// SubTabRequest cambio de sub-pestaña del paso de staff.
type SubTabRequest struct {
	SubTab          onboarding.StaffSubTab `json:"sub_tab" validate:"required,oneof=staff availability"`
	SelectedStaffID string                 `json:"selected_staff_id"`
}

// ClearAllRequest confirmación explícita para reiniciar el asistente.
type ClearAllRequest struct {
	Confirm bool `json:"confirm"`
}

// WizardView estado del asistente para la UI.
type WizardView struct {
	Step          onboarding.Step           `json:"step"`
	StepName      string                    `json:"step_name"`
	StepCount     int                       `json:"step_count"`
	PrimaryAction string                    `json:"primary_action"`
	CanAdvance    bool                      `json:"can_advance"`
	CanGoBack     bool                      `json:"can_go_back"`
	CanClearAll   bool                      `json:"can_clear_all"`
	Busy          bool                      `json:"busy"`
	Active        onboarding.StepState      `json:"active"`
	Progress      entity.OnboardingProgress `json:"progress"`
}

// CompletionResponse resultado de completar el asistente.
type CompletionResponse struct {
	Completed      bool      `json:"completed"`
	CompletedAt    time.Time `json:"completed_at"`
	ServerMarked   bool      `json:"server_marked"`
	ReloadRequired bool      `json:"reload_required"`
}

// GateResponse decisión de la puerta de onboarding.
type GateResponse struct {
	Skipped    bool                   `json:"skipped"`
	Reason     string                 `json:"reason,omitempty"`
	Completed  bool                   `json:"completed"`
	SelfHealed bool                   `json:"self_healed,omitempty"`
	Resume     onboarding.ResumePoint `json:"resume"`
}
