package onboarding

import (
	"context"

	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/session"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/rs/zerolog"
)

const wizardSessionKey = "onboarding.wizard"

// Service expone el asistente y la puerta para cada sesión de consola.
type Service struct {
	repos Repositories
	store repository.StateStore
	gate  *Gate
	log   zerolog.Logger
}

// NewService construye el servicio de onboarding.
func NewService(repos Repositories, store repository.StateStore, publicRoutes []string, log zerolog.Logger) *Service {
	return &Service{
		repos: repos,
		store: store,
		gate:  NewGate(repos, publicRoutes, log),
		log:   log,
	}
}

// Wizard devuelve el asistente de la sesión, creándolo (con su progreso persistido) en el primer acceso.
func (s *Service) Wizard(ctx context.Context, sess *session.Session) (*Wizard, error) {
	return session.Value(sess, wizardSessionKey, func() (*Wizard, error) {
		progress, err := NewProgressStore(ctx, s.store, sess.Principal.TenantID, s.log)
		if err != nil {
			return nil, err
		}
		return NewWizard(progress, s.repos, s.log.With().Str("tenant_id", sess.Principal.TenantID).Logger()), nil
	})
}

// Status evalúa la puerta para la ruta solicitada.
func (s *Service) Status(ctx context.Context, sess *session.Session, route string) (*dto.GateResponse, error) {
	if s.gate.IsPublic(route) || sess.Principal.Role != entity.RoleAdmin {
		return s.gate.Check(ctx, route, sess.Principal, nil)
	}
	w, err := s.Wizard(ctx, sess)
	if err != nil {
		return nil, err
	}
	return s.gate.Check(ctx, route, sess.Principal, w.Progress())
}
