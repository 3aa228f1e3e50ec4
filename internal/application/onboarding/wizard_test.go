package onboarding_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/onboarding"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	domonb "github.com/jhoicas/clinic-console/internal/domain/onboarding"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWizard(t *testing.T, f *fixture) *onboarding.Wizard {
	t.Helper()
	ps, err := onboarding.NewProgressStore(context.Background(), f.store, "t1", zerolog.Nop())
	require.NoError(t, err)
	return onboarding.NewWizard(ps, f.repos(), zerolog.Nop())
}

var (
	jakarta = dto.OutletInput{Name: "Jakarta Pusat", Address: "Jl. Sudirman 1", Phone: "81234567890"}
	facial  = dto.ProductInput{Name: "Facial", Category: "facial", DurationMinutes: 60, BasePrice: decimal.NewFromInt(150000)}
	siti    = dto.StaffInput{Name: "Siti Rahayu", Position: "therapist"}
	monWedF = dto.AvailabilityInput{Days: []time.Weekday{time.Monday, time.Wednesday, time.Friday}, StartTime: "09:00", EndTime: "17:00"}
)

// ─── Flujo completo ─────────────────────────────────────────────────────────

func TestWizard_HappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	w := newWizard(t, f)

	var events []domonb.StepState
	w.Subscribe(func(s domonb.StepState) { events = append(events, s) })

	v := w.Mount(ctx, 1)
	assert.Equal(t, domonb.StepOutlets, v.Step)
	assert.False(t, v.CanAdvance)
	assert.Equal(t, domonb.ActionNext, v.PrimaryAction)

	_, err := w.Next(ctx)
	assert.ErrorIs(t, err, domain.ErrStepNotReady)

	draft, err := w.AddOutlet(ctx, jakarta)
	require.NoError(t, err)
	assert.Equal(t, "+6281234567890", draft.Phone)
	assert.True(t, w.View().CanAdvance, "habilitado sin otra acción")
	require.Len(t, events, 1)
	assert.True(t, events[0].Valid())

	v, err = w.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, domonb.StepProducts, v.Step)
	assert.False(t, v.CanAdvance)

	_, err = w.AddProduct(ctx, facial)
	require.NoError(t, err)
	v, err = w.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, domonb.StepStaff, v.Step)
	assert.Equal(t, domonb.ActionComplete, v.PrimaryAction)

	staff, err := w.AddStaff(ctx, siti)
	require.NoError(t, err)
	st := w.Staff.State()
	assert.Equal(t, domonb.SubTabAvailability, st.SubTab, "cambia a disponibilidad automáticamente")
	assert.Equal(t, staff.ID, st.SelectedStaffID)
	assert.Equal(t, "outlet-1", staff.OutletID)
	assert.Equal(t, []string{"svc-1"}, staff.ServiceIDs)
	assert.False(t, w.View().CanAdvance, "falta la disponibilidad")

	_, err = w.AddAvailability(ctx, monWedF)
	require.NoError(t, err)
	assert.True(t, w.View().CanAdvance)
	require.Len(t, f.availability.items, 1)
	assert.Equal(t, entity.RecurrenceWeekly, f.availability.items[0].RecurrenceType)

	_, err = w.Next(ctx)
	assert.ErrorIs(t, err, domain.ErrConflict, "en el paso final se usa completar")

	res, err := w.Complete(ctx)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.True(t, res.ReloadRequired)
	assert.True(t, res.ServerMarked)
	assert.Equal(t, 1, f.tenants.marks)
	assert.False(t, w.Progress().Snapshot().HasStagedData())

	again, err := w.Complete(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.CompletedAt, again.CompletedAt)
	assert.Equal(t, 1, f.tenants.marks)
}

func TestWizard_CompleteServerMarkIsBestEffort(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.tenants.markErr = errBackend
	w := newWizard(t, f)
	w.Mount(ctx, 3)
	_, err := w.AddStaff(ctx, dto.StaffInput{Name: "Siti", Position: "therapist", OutletID: "o9"})
	require.NoError(t, err)
	_, err = w.AddAvailability(ctx, monWedF)
	require.NoError(t, err)

	res, err := w.Complete(ctx)
	require.NoError(t, err)
	assert.False(t, res.ServerMarked)
	assert.True(t, w.Progress().IsCompleted())
}

// ─── Montaje y navegación ───────────────────────────────────────────────────

func TestWizard_MountSeedsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	w := newWizard(t, f)

	assert.Equal(t, domonb.StepProducts, w.Mount(ctx, 2).Step)
	assert.Equal(t, domonb.StepProducts, w.Mount(ctx, 3).Step, "cambios posteriores se ignoran")
	assert.Equal(t, 1, f.tenants.usageHits)

	v, err := w.Back(ctx)
	require.NoError(t, err)
	assert.Equal(t, domonb.StepOutlets, v.Step)
	v, err = w.Back(ctx)
	require.NoError(t, err)
	assert.Equal(t, domonb.StepOutlets, v.Step, "no baja del paso 1")
}

func TestWizard_MountClampsAndResumesCursor(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	assert.Equal(t, domonb.StepStaff, newWizard(t, f).Mount(ctx, 4).Step)

	g := newFixture()
	w := newWizard(t, g)
	w.Progress().SetCurrentStep(ctx, 2)
	assert.Equal(t, domonb.StepProducts, w.Mount(ctx, 0).Step)
}

func TestWizard_BackKeepsDataAndValidityIsDerived(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	w := newWizard(t, f)
	w.Mount(ctx, 1)
	_, err := w.AddOutlet(ctx, jakarta)
	require.NoError(t, err)
	_, err = w.Next(ctx)
	require.NoError(t, err)
	_, err = w.Back(ctx)
	require.NoError(t, err)

	v := w.View()
	assert.Len(t, v.Progress.Outlets, 1)
	assert.True(t, v.CanAdvance, "el paso sigue completo al volver")
}

func TestWizard_AddOnInactiveStep(t *testing.T) {
	ctx := context.Background()
	w := newWizard(t, newFixture())
	w.Mount(ctx, 1)
	_, err := w.AddProduct(ctx, facial)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ─── Validación y topes del plan ────────────────────────────────────────────

func TestWizard_ValidationErrorsDoNotCallBackend(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	w := newWizard(t, f)
	w.Mount(ctx, 1)

	_, err := w.AddOutlet(ctx, dto.OutletInput{Name: "J", Phone: "0712"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "address")
	assert.Contains(t, verr.Fields, "phone")
	assert.Equal(t, 0, f.outlets.creates)
	assert.False(t, w.View().CanAdvance)
}

func TestWizard_PlanLimitShortCircuits(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.tenants.usage = &entity.PlanUsage{Outlets: entity.UsageCounter{Used: 0, Limit: 1}}
	w := newWizard(t, f)
	w.Mount(ctx, 1)

	_, err := w.AddOutlet(ctx, jakarta)
	require.NoError(t, err)
	_, err = w.AddOutlet(ctx, jakarta)
	var lerr *domain.LimitError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, 1, lerr.Limit)
	assert.Equal(t, 1, f.outlets.creates, "sin POST al llegar al tope")
}

func TestWizard_UnlimitedWhenUsageUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.tenants.usageErr = errBackend
	w := newWizard(t, f)
	w.Mount(ctx, 1)
	_, err := w.AddOutlet(ctx, jakarta)
	assert.NoError(t, err)
}

func TestWizard_BackendFailureKeepsProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.outlets.err = &domain.BackendError{Status: 500, Message: "failed to create outlet"}
	w := newWizard(t, f)
	w.Mount(ctx, 1)
	_, err := w.AddOutlet(ctx, jakarta)
	var berr *domain.BackendError
	require.True(t, errors.As(err, &berr))
	assert.False(t, w.Progress().Snapshot().HasStagedData())
}

func TestWizard_AvailabilityRequiresStaffAndDays(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	w := newWizard(t, f)
	w.Mount(ctx, 3)

	_, err := w.AddAvailability(ctx, monWedF)
	assert.ErrorIs(t, err, domain.ErrStaffRequired)
	assert.ErrorIs(t, w.SelectSubTab(dto.SubTabRequest{SubTab: domonb.SubTabAvailability}), domain.ErrStaffRequired)

	_, err = w.AddStaff(ctx, dto.StaffInput{Name: "Siti", Position: "therapist", OutletID: "o1"})
	require.NoError(t, err)

	_, err = w.AddAvailability(ctx, dto.AvailabilityInput{StartTime: "09:00", EndTime: "17:00"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "days")

	_, err = w.AddAvailability(ctx, dto.AvailabilityInput{Days: []time.Weekday{time.Monday}, StartTime: "17:00", EndTime: "09:00"})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "end_time")
	assert.Empty(t, f.availability.items)
}

func TestWizard_AvailabilityFailureKeepsStaff(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.availability.err = errBackend
	w := newWizard(t, f)
	w.Mount(ctx, 3)
	_, err := w.AddStaff(ctx, dto.StaffInput{Name: "Siti", Position: "therapist", OutletID: "o1"})
	require.NoError(t, err)
	_, err = w.AddAvailability(ctx, monWedF)
	require.Error(t, err)
	assert.Len(t, w.Progress().Snapshot().Staff, 1, "sin rollback compensatorio")
	assert.False(t, w.View().CanAdvance)
}

// ─── Limpiar todo y guardia de ocupado ──────────────────────────────────────

func TestWizard_ClearAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	w := newWizard(t, f)
	w.Mount(ctx, 1)

	_, err := w.ClearAll(ctx, true)
	assert.ErrorIs(t, err, domain.ErrConflict, "sin datos acumulados")

	_, err = w.AddOutlet(ctx, jakarta)
	require.NoError(t, err)
	assert.True(t, w.View().CanClearAll)

	_, err = w.ClearAll(ctx, false)
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.True(t, w.Progress().Snapshot().HasStagedData())

	v, err := w.ClearAll(ctx, true)
	require.NoError(t, err)
	assert.False(t, v.Progress.HasStagedData())
	assert.False(t, v.CanAdvance)

	_, err = w.AddOutlet(ctx, jakarta)
	require.NoError(t, err)
	_, err = w.Next(ctx)
	require.NoError(t, err)
	_, err = w.ClearAll(ctx, true)
	assert.ErrorIs(t, err, domain.ErrConflict, "solo en el paso 1")
}

func TestWizard_BusyGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.outlets.block = make(chan struct{})
	f.outlets.entered = make(chan struct{})
	w := newWizard(t, f)
	w.Mount(ctx, 1)

	done := make(chan error, 1)
	go func() {
		_, err := w.AddOutlet(ctx, jakarta)
		done <- err
	}()
	<-f.outlets.entered

	assert.True(t, w.View().Busy)
	assert.False(t, w.View().CanAdvance)
	_, err := w.Next(ctx)
	assert.ErrorIs(t, err, domain.ErrBusy)
	_, err = w.Back(ctx)
	assert.ErrorIs(t, err, domain.ErrBusy)
	_, err = w.AddOutlet(ctx, jakarta)
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(f.outlets.block)
	require.NoError(t, <-done)
	v := w.View()
	assert.False(t, v.Busy)
	assert.True(t, v.CanAdvance)
}
