package onboarding

import "github.com/jhoicas/clinic-console/internal/domain/entity"

// StepState variante de estado de un paso. Cada variante lleva sus propios datos
// y calcula su validez a partir de ellos, de modo que la validez nunca queda
// desfasada respecto de los datos al volver a montar un paso.
type StepState interface {
	Step() Step
	Valid() bool
	stepState()
}

// OutletStepState estado del paso de sedes.
type OutletStepState struct {
	Outlets []entity.OutletDraft `json:"outlets"`
	Usage   entity.UsageCounter  `json:"usage"`
}

func (OutletStepState) Step() Step   { return StepOutlets }
func (s OutletStepState) Valid() bool { return len(s.Outlets) >= 1 }
func (OutletStepState) stepState()    {}

// ProductStepState estado del paso de productos/servicios.
type ProductStepState struct {
	Products []entity.ProductDraft `json:"products"`
	Usage    entity.UsageCounter   `json:"usage"`
}

func (ProductStepState) Step() Step   { return StepProducts }
func (s ProductStepState) Valid() bool { return len(s.Products) >= 1 }
func (ProductStepState) stepState()    {}

// StaffSubTab sub-pestaña del paso de staff.
type StaffSubTab string

const (
	SubTabStaff        StaffSubTab = "staff"
	SubTabAvailability StaffSubTab = "availability"
)

// StaffStepState estado del paso de staff y disponibilidad.
type StaffStepState struct {
	Staff           []entity.StaffDraft        `json:"staff"`
	Availabilities  []entity.AvailabilityDraft `json:"availabilities"`
	SubTab          StaffSubTab                `json:"sub_tab"`
	SelectedStaffID string                     `json:"selected_staff_id,omitempty"`
	Usage           entity.UsageCounter        `json:"usage"`
}

func (StaffStepState) Step() Step { return StepStaff }
func (s StaffStepState) Valid() bool {
	return len(s.Staff) >= 1 && len(s.Availabilities) >= 1
}
func (StaffStepState) stepState() {}

// CanEnterAvailability la sub-pestaña de disponibilidad requiere al menos un staff.
func (s StaffStepState) CanEnterAvailability() bool { return len(s.Staff) >= 1 }
