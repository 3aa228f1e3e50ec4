package onboarding

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/onboarding"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Repositories puertos del backend que usa el asistente.
type Repositories struct {
	Outlets      repository.OutletRepository
	Users        repository.UserRepository
	Services     repository.ServiceRepository
	Staff        repository.StaffRepository
	Availability repository.AvailabilityRepository
	Tenants      repository.TenantRepository
}

// Wizard orquestador del asistente para una sesión: cursor, pasos y guardia de
// operación en curso. Mientras un alta o un completado está en vuelo, el resto
// de acciones devuelve domain.ErrBusy.
type Wizard struct {
	mu      sync.Mutex
	machine *onboarding.Machine
	busy    bool

	progress *ProgressStore
	tenants  repository.TenantRepository
	Outlets  *OutletStep
	Products *ProductStep
	Staff    *StaffStep

	listeners []Listener
	log       zerolog.Logger
}

// NewWizard construye el orquestador y sus tres pasos sobre el progreso dado.
func NewWizard(progress *ProgressStore, repos Repositories, log zerolog.Logger) *Wizard {
	w := &Wizard{
		machine:  onboarding.NewMachine(),
		progress: progress,
		tenants:  repos.Tenants,
		Outlets:  NewOutletStep(repos.Outlets, repos.Tenants, progress, log),
		Products: NewProductStep(repos.Services, repos.Tenants, progress, log),
		Staff:    NewStaffStep(repos.Staff, repos.Availability, repos.Outlets, repos.Tenants, progress, log),
		log:      log,
	}
	w.Outlets.notify = w.dispatch
	w.Products.notify = w.dispatch
	w.Staff.notify = w.dispatch
	return w
}

// Subscribe registra un observador de cambios de estado de los pasos.
func (w *Wizard) Subscribe(l Listener) {
	w.mu.Lock()
	w.listeners = append(w.listeners, l)
	w.mu.Unlock()
}

func (w *Wizard) dispatch(state onboarding.StepState) {
	w.mu.Lock()
	ls := append([]Listener(nil), w.listeners...)
	w.mu.Unlock()
	w.log.Debug().Stringer("step", state.Step()).Bool("valid", state.Valid()).Msg("onboarding: estado del paso")
	for _, l := range ls {
		l(state)
	}
}

// Progress store de progreso de la sesión.
func (w *Wizard) Progress() *ProgressStore { return w.progress }

// Mount fija el paso inicial una sola vez y carga el resumen de uso del plan.
// initialStep <= 0 reanuda desde el cursor persistido.
func (w *Wizard) Mount(ctx context.Context, initialStep int) dto.WizardView {
	if initialStep <= 0 {
		initialStep = w.progress.Snapshot().CurrentStep
	}
	w.mu.Lock()
	seeded := w.machine.Seed(initialStep)
	current := w.machine.Current()
	w.mu.Unlock()
	if seeded {
		w.progress.SetCurrentStep(ctx, int(current))
		w.loadUsage(ctx)
	}
	return w.View()
}

func (w *Wizard) loadUsage(ctx context.Context) {
	usage, err := w.tenants.Usage(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("onboarding: no se pudo cargar el resumen de uso")
		return
	}
	w.Outlets.usage.set(usage.Outlets)
	w.Products.usage.set(usage.Services)
	w.Staff.usage.set(usage.Staff)
}

// Active variante de estado del paso activo. La validez se deriva de sus datos
// en cada consulta.
func (w *Wizard) Active() onboarding.StepState {
	w.mu.Lock()
	step := w.machine.Current()
	w.mu.Unlock()
	return w.stateOf(step)
}

func (w *Wizard) stateOf(step onboarding.Step) onboarding.StepState {
	switch step {
	case onboarding.StepOutlets:
		return w.Outlets.State()
	case onboarding.StepProducts:
		return w.Products.State()
	default:
		return w.Staff.State()
	}
}

// View estado completo para la UI.
func (w *Wizard) View() dto.WizardView {
	active := w.Active()
	snapshot := w.progress.Snapshot()
	w.mu.Lock()
	defer w.mu.Unlock()
	step := w.machine.Current()
	return dto.WizardView{
		Step:          step,
		StepName:      step.String(),
		StepCount:     onboarding.StepCount,
		PrimaryAction: step.PrimaryAction(),
		CanAdvance:    !w.busy && w.machine.CanAdvance(active),
		CanGoBack:     !w.busy && step > onboarding.StepOutlets,
		CanClearAll:   !w.busy && step == onboarding.StepOutlets && snapshot.HasStagedData(),
		Busy:          w.busy,
		Active:        active,
		Progress:      snapshot,
	}
}

// begin toma la guardia de operación en curso; el paso debe ser el activo si se indica.
func (w *Wizard) begin(step onboarding.Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return domain.ErrBusy
	}
	if step != 0 && w.machine.Current() != step {
		return fmt.Errorf("onboarding: el paso %s no está activo: %w", step, domain.ErrConflict)
	}
	w.busy = true
	return nil
}

func (w *Wizard) end() {
	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()
}

// AddOutlet alta en el paso de sedes.
func (w *Wizard) AddOutlet(ctx context.Context, in dto.OutletInput) (*entity.OutletDraft, error) {
	if err := w.begin(onboarding.StepOutlets); err != nil {
		return nil, err
	}
	defer w.end()
	return w.Outlets.Add(ctx, in)
}

// AddProduct alta en el paso de servicios.
func (w *Wizard) AddProduct(ctx context.Context, in dto.ProductInput) (*entity.ProductDraft, error) {
	if err := w.begin(onboarding.StepProducts); err != nil {
		return nil, err
	}
	defer w.end()
	return w.Products.Add(ctx, in)
}

// AddStaff alta en el paso de staff.
func (w *Wizard) AddStaff(ctx context.Context, in dto.StaffInput) (*entity.StaffDraft, error) {
	if err := w.begin(onboarding.StepStaff); err != nil {
		return nil, err
	}
	defer w.end()
	return w.Staff.Add(ctx, in)
}

// AddAvailability alta de disponibilidad en el paso de staff.
func (w *Wizard) AddAvailability(ctx context.Context, in dto.AvailabilityInput) (*entity.AvailabilityDraft, error) {
	if err := w.begin(onboarding.StepStaff); err != nil {
		return nil, err
	}
	defer w.end()
	return w.Staff.AddAvailability(ctx, in)
}

// SelectSubTab cambia la sub-pestaña del paso de staff.
func (w *Wizard) SelectSubTab(in dto.SubTabRequest) error {
	if err := w.begin(onboarding.StepStaff); err != nil {
		return err
	}
	defer w.end()
	return w.Staff.SelectSubTab(in.SubTab, in.SelectedStaffID)
}

// Next avanza si el paso activo está completo.
func (w *Wizard) Next(ctx context.Context) (dto.WizardView, error) {
	if err := w.begin(0); err != nil {
		return dto.WizardView{}, err
	}
	active := w.Active()
	w.mu.Lock()
	err := w.machine.Next(active)
	current := w.machine.Current()
	w.mu.Unlock()
	w.end()
	if err != nil {
		return w.View(), err
	}
	w.progress.SetCurrentStep(ctx, int(current))
	return w.View(), nil
}

// Back retrocede un paso sin tocar los datos acumulados.
func (w *Wizard) Back(ctx context.Context) (dto.WizardView, error) {
	if err := w.begin(0); err != nil {
		return dto.WizardView{}, err
	}
	w.mu.Lock()
	moved := w.machine.Back()
	current := w.machine.Current()
	w.mu.Unlock()
	w.end()
	if moved {
		w.progress.SetCurrentStep(ctx, int(current))
	}
	return w.View(), nil
}

// Complete completa el asistente desde el paso final. La marca local es
// obligatoria; la marca en el backend es best-effort.
func (w *Wizard) Complete(ctx context.Context) (*dto.CompletionResponse, error) {
	if err := w.begin(onboarding.StepStaff); err != nil {
		return nil, err
	}
	defer w.end()
	if w.progress.IsCompleted() {
		out := &dto.CompletionResponse{Completed: true, ReloadRequired: true}
		if m := w.progress.Completion(); m != nil {
			out.CompletedAt = m.CompletedAt
		}
		return out, nil
	}
	active := w.Active()
	w.mu.Lock()
	ok := w.machine.CanComplete(active)
	w.mu.Unlock()
	if !ok {
		return nil, domain.ErrStepNotReady
	}
	if err := w.progress.Complete(ctx); err != nil {
		return nil, err
	}
	out := &dto.CompletionResponse{Completed: true, ReloadRequired: true}
	if m := w.progress.Completion(); m != nil {
		out.CompletedAt = m.CompletedAt
	}
	if err := w.tenants.MarkOnboardingCompleted(ctx); err != nil {
		w.log.Warn().Err(err).Msg("onboarding: no se pudo registrar el completado en el backend")
	} else {
		out.ServerMarked = true
	}
	w.log.Info().Msg("onboarding: asistente completado")
	return out, nil
}

// ClearAll reinicia el asistente. Solo en el paso 1, con datos acumulados y confirmación explícita.
func (w *Wizard) ClearAll(ctx context.Context, confirmed bool) (dto.WizardView, error) {
	if err := w.begin(onboarding.StepOutlets); err != nil {
		return dto.WizardView{}, err
	}
	err := w.clearAll(ctx, confirmed)
	w.end()
	return w.View(), err
}

func (w *Wizard) clearAll(ctx context.Context, confirmed bool) error {
	if !w.progress.Snapshot().HasStagedData() {
		return fmt.Errorf("onboarding: no hay datos para limpiar: %w", domain.ErrConflict)
	}
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	w.progress.Reset(ctx)
	w.Staff.resetSubTab()
	w.dispatch(w.Outlets.State())
	return nil
}
