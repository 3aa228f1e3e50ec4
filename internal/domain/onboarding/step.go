// Package onboarding contiene la máquina de estados pura del asistente de
// configuración operativa: pasos, variantes de estado por paso y la regla de
// reanudación por recursos faltantes.
package onboarding

import "fmt"

// Step índice 1-based del paso del asistente.
type Step int

const (
	StepOutlets  Step = 1
	StepProducts Step = 2
	StepStaff    Step = 3
)

// StepCount cantidad de pasos del asistente.
const StepCount = 3

// Valid informa si el paso está dentro de [1, StepCount].
func (s Step) Valid() bool { return s >= StepOutlets && s <= StepCount }

// IsFinal informa si es el último paso (la acción principal pasa a ser Completar).
func (s Step) IsFinal() bool { return s == StepCount }

func (s Step) String() string {
	switch s {
	case StepOutlets:
		return "outlets"
	case StepProducts:
		return "products"
	case StepStaff:
		return "staff"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// ClampStep ajusta n al rango válido de pasos.
func ClampStep(n int) Step {
	if n < int(StepOutlets) {
		return StepOutlets
	}
	if n > StepCount {
		return StepCount
	}
	return Step(n)
}

// Acciones principales del asistente.
const (
	ActionNext     = "next"
	ActionComplete = "complete"
)

// PrimaryAction acción principal que corresponde al paso.
func (s Step) PrimaryAction() string {
	if s.IsFinal() {
		return ActionComplete
	}
	return ActionNext
}
