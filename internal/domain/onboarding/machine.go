package onboarding

import (
	"fmt"

	"github.com/jhoicas/clinic-console/internal/domain"
)

// Machine cursor del asistente con sus transiciones permitidas.
type Machine struct {
	current Step
	seeded  bool
}

// NewMachine crea la máquina en el primer paso.
func NewMachine() *Machine {
	return &Machine{current: StepOutlets}
}

// Seed fija el paso inicial una única vez (al montar). Las llamadas posteriores
// se ignoran para no pelear con la navegación Atrás/Siguiente.
func (m *Machine) Seed(initial int) bool {
	if m.seeded {
		return false
	}
	m.current = ClampStep(initial)
	m.seeded = true
	return true
}

// Seeded informa si ya se montó.
func (m *Machine) Seeded() bool { return m.seeded }

// Current paso activo.
func (m *Machine) Current() Step { return m.current }

// CanAdvance informa si la acción principal está habilitada para el estado activo.
func (m *Machine) CanAdvance(active StepState) bool {
	return active != nil && active.Step() == m.current && active.Valid()
}

// Next avanza un paso. Solo es válido fuera del paso final y con el paso activo completo.
func (m *Machine) Next(active StepState) error {
	if m.current.IsFinal() {
		return fmt.Errorf("onboarding: el paso %s es final, use completar: %w", m.current, domain.ErrConflict)
	}
	if !m.CanAdvance(active) {
		return domain.ErrStepNotReady
	}
	m.current++
	return nil
}

// Back retrocede un paso si no está en el primero. No borra datos acumulados.
func (m *Machine) Back() bool {
	if m.current <= StepOutlets {
		return false
	}
	m.current--
	return true
}

// CanComplete informa si se puede completar el asistente desde el estado activo.
func (m *Machine) CanComplete(active StepState) bool {
	return m.current.IsFinal() && m.CanAdvance(active)
}
