package onboarding

import "fmt"

// ResourceKind tipo de recurso que el asistente configura.
type ResourceKind string

const (
	ResourceOutlets  ResourceKind = "outlets"
	ResourceUsers    ResourceKind = "users"
	ResourceServices ResourceKind = "services"
	ResourceStaff    ResourceKind = "staff"
)

// ResourceOrder orden fijo de dependencia en que se verifican los recursos.
var ResourceOrder = []ResourceKind{ResourceOutlets, ResourceUsers, ResourceServices, ResourceStaff}

// wizardSteps paso del asistente donde se crea cada recurso. Los usuarios no
// tienen paso propio; se reanuda en el siguiente paso con formulario.
var wizardSteps = map[ResourceKind]Step{
	ResourceOutlets:  StepOutlets,
	ResourceUsers:    StepProducts,
	ResourceServices: StepProducts,
	ResourceStaff:    StepStaff,
}

// WizardStep paso del asistente asociado al recurso.
func (k ResourceKind) WizardStep() Step { return wizardSteps[k] }

// ResumePoint decisión de reanudación del asistente.
type ResumePoint struct {
	// ShowWizard es false cuando todos los recursos ya existen.
	ShowWizard bool `json:"show_wizard"`
	// StartStep índice 1-based del primer recurso faltante en ResourceOrder (1..4).
	StartStep int `json:"start_step,omitempty"`
	// WizardStep paso del asistente donde se reanuda.
	WizardStep Step         `json:"wizard_step,omitempty"`
	Missing    ResourceKind `json:"missing,omitempty"`
}

// Resolve recorre los recursos en ResourceOrder y se detiene en el primero sin
// registros. has se invoca de forma secuencial y solo hasta encontrar el faltante.
func Resolve(has func(ResourceKind) (bool, error)) (ResumePoint, error) {
	for i, kind := range ResourceOrder {
		ok, err := has(kind)
		if err != nil {
			return ResumePoint{}, fmt.Errorf("onboarding: verificar %s: %w", kind, err)
		}
		if !ok {
			return ResumePoint{
				ShowWizard: true,
				StartStep:  i + 1,
				WizardStep: kind.WizardStep(),
				Missing:    kind,
			}, nil
		}
	}
	return ResumePoint{ShowWizard: false}, nil
}
