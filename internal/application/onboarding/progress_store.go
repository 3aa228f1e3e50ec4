package onboarding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Nombres de documento en el StateStore.
const (
	DocumentName = "onboarding"

	legacyProgressName  = "operational-onboarding-progress"
	legacyCompletedName = "operational-onboarding-completed"
)

// legacyCompletion formato de la marca de completado anterior al documento versionado.
type legacyCompletion struct {
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completedAt"`
}

// ProgressStore fuente única de los datos acumulados del asistente y su cursor
// para un tenant. Persiste un único OnboardingDocument versionado.
type ProgressStore struct {
	mu       sync.Mutex
	store    repository.StateStore
	tenantID string
	log      zerolog.Logger
	now      func() time.Time

	progress   entity.OnboardingProgress
	completion *entity.CompletionMarker
}

// NewProgressStore construye el store, carga el snapshot de trabajo y reconcilia
// IsCompleted con la marca persistida. Si el documento versionado no existe
// migra las llaves antiguas y las elimina.
func NewProgressStore(ctx context.Context, store repository.StateStore, tenantID string, log zerolog.Logger) (*ProgressStore, error) {
	s := &ProgressStore{
		store:    store,
		tenantID: tenantID,
		log:      log.With().Str("tenant_id", tenantID).Logger(),
		now:      time.Now,
		progress: entity.OnboardingProgress{CurrentStep: 1},
	}
	doc, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if doc.Progress != nil {
		s.progress = doc.Progress.Clone()
		if s.progress.CurrentStep < 1 {
			s.progress.CurrentStep = 1
		}
	}
	s.completion = doc.Completion
	s.progress.IsCompleted = doc.Completion != nil && doc.Completion.Completed
	return s, nil
}

func (s *ProgressStore) key() string { return repository.TenantKey(s.tenantID, DocumentName) }

// read devuelve el documento versionado, migrando desde las llaves antiguas si hace falta.
func (s *ProgressStore) read(ctx context.Context) (entity.OnboardingDocument, error) {
	var doc entity.OnboardingDocument
	found, err := s.store.Get(ctx, s.key(), &doc)
	if err != nil {
		return doc, fmt.Errorf("onboarding: leer documento: %w", err)
	}
	if found {
		return doc, nil
	}
	return s.migrateLegacy(ctx)
}

func (s *ProgressStore) migrateLegacy(ctx context.Context) (entity.OnboardingDocument, error) {
	doc := entity.OnboardingDocument{Version: entity.OnboardingDocumentVersion}
	progressKey := repository.TenantKey(s.tenantID, legacyProgressName)
	completedKey := repository.TenantKey(s.tenantID, legacyCompletedName)

	var legacy entity.OnboardingProgress
	hasProgress, err := s.store.Get(ctx, progressKey, &legacy)
	if err != nil {
		return doc, fmt.Errorf("onboarding: leer snapshot anterior: %w", err)
	}
	var marker legacyCompletion
	hasMarker, err := s.store.Get(ctx, completedKey, &marker)
	if err != nil {
		return doc, fmt.Errorf("onboarding: leer marca anterior: %w", err)
	}
	if !hasProgress && !hasMarker {
		return doc, nil
	}
	if hasMarker && marker.Completed {
		doc.Completion = &entity.CompletionMarker{Completed: true, CompletedAt: marker.CompletedAt}
	} else if hasProgress {
		doc.Progress = &legacy
	}
	if err := repository.Replace(ctx, s.store, s.key(), doc, progressKey, completedKey); err != nil {
		return doc, fmt.Errorf("onboarding: migrar documento: %w", err)
	}
	s.log.Info().Bool("completed", doc.Completion != nil).Msg("onboarding: documento migrado desde llaves anteriores")
	return doc, nil
}

// persist escribe el snapshot de trabajo. Es best-effort: un fallo se registra
// y el estado en memoria sigue siendo la fuente de verdad de la sesión.
// Se llama con mu tomado.
func (s *ProgressStore) persist(ctx context.Context) {
	p := s.progress.Clone()
	doc := entity.OnboardingDocument{Version: entity.OnboardingDocumentVersion, Progress: &p, Completion: s.completion}
	if err := s.store.Put(ctx, s.key(), doc); err != nil {
		s.log.Warn().Err(err).Msg("onboarding: no se pudo guardar el snapshot")
	}
}

// AddOutlet agrega una sede creada. Sin deduplicación ni validación.
func (s *ProgressStore) AddOutlet(ctx context.Context, d entity.OutletDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.Outlets = append(s.progress.Outlets, d)
	s.persist(ctx)
}

// AddUser agrega un usuario creado.
func (s *ProgressStore) AddUser(ctx context.Context, d entity.UserDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.Users = append(s.progress.Users, d)
	s.persist(ctx)
}

// AddProduct agrega un servicio creado.
func (s *ProgressStore) AddProduct(ctx context.Context, d entity.ProductDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.Products = append(s.progress.Products, d)
	s.persist(ctx)
}

// AddStaff agrega un miembro del staff creado.
func (s *ProgressStore) AddStaff(ctx context.Context, d entity.StaffDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.Staff = append(s.progress.Staff, d)
	s.persist(ctx)
}

// AddAvailability agrega una disponibilidad creada.
func (s *ProgressStore) AddAvailability(ctx context.Context, d entity.AvailabilityDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.Availabilities = append(s.progress.Availabilities, d)
	s.persist(ctx)
}

// SetCurrentStep fija el cursor. No valida rangos: lo hace la máquina de estados.
func (s *ProgressStore) SetCurrentStep(ctx context.Context, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.CurrentStep = n
	s.persist(ctx)
}

// Complete guarda la marca de completado y descarta el snapshot de trabajo.
// Es idempotente: si ya está completado no vuelve a escribir. Si la escritura
// falla, IsCompleted sigue en false y se devuelve el error.
func (s *ProgressStore) Complete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completion != nil && s.completion.Completed {
		s.progress = entity.OnboardingProgress{CurrentStep: 1, IsCompleted: true}
		return nil
	}
	marker := &entity.CompletionMarker{Completed: true, CompletedAt: s.now().UTC()}
	doc := entity.OnboardingDocument{Version: entity.OnboardingDocumentVersion, Completion: marker}
	if err := s.store.Put(ctx, s.key(), doc); err != nil {
		return fmt.Errorf("onboarding: guardar marca de completado: %w", err)
	}
	s.completion = marker
	s.progress = entity.OnboardingProgress{CurrentStep: 1, IsCompleted: true}
	return nil
}

// Reset vacía las listas, vuelve al paso 1 y borra el documento. Siempre
// termina localmente; los errores del almacén solo se registran.
func (s *ProgressStore) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = entity.OnboardingProgress{CurrentStep: 1}
	s.completion = nil
	err := s.store.Delete(ctx,
		s.key(),
		repository.TenantKey(s.tenantID, legacyProgressName),
		repository.TenantKey(s.tenantID, legacyCompletedName),
	)
	if err != nil {
		s.log.Warn().Err(err).Msg("onboarding: no se pudo borrar el documento al reiniciar")
	}
}

// LoadProgress lee la marca de completado y reconcilia IsCompleted.
func (s *ProgressStore) LoadProgress(ctx context.Context) (bool, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completion = doc.Completion
	s.progress.IsCompleted = doc.Completion != nil && doc.Completion.Completed
	return s.progress.IsCompleted, nil
}

// Snapshot copia del estado actual.
func (s *ProgressStore) Snapshot() entity.OnboardingProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.Clone()
}

// IsCompleted informa si el asistente ya se completó.
func (s *ProgressStore) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.IsCompleted
}

// Completion marca persistida, si existe.
func (s *ProgressStore) Completion() *entity.CompletionMarker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completion == nil {
		return nil
	}
	c := *s.completion
	return &c
}
