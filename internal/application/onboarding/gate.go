package onboarding

import (
	"context"
	"strings"

	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/onboarding"
	"github.com/rs/zerolog"
)

// Motivos por los que la puerta no evalúa el asistente.
const (
	SkipPublicRoute = "public_route"
	SkipNotAdmin    = "not_admin"
)

// Gate decide al cargar cada ruta si el asistente debe mostrarse y en qué paso.
type Gate struct {
	repos        Repositories
	publicRoutes []string
	log          zerolog.Logger
}

// NewGate construye la puerta. publicRoutes se comparan por prefijo.
func NewGate(repos Repositories, publicRoutes []string, log zerolog.Logger) *Gate {
	return &Gate{repos: repos, publicRoutes: publicRoutes, log: log}
}

// IsPublic informa si la ruta no requiere la puerta.
func (g *Gate) IsPublic(route string) bool {
	for _, p := range g.publicRoutes {
		if route == p || strings.HasPrefix(route, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

// Check evalúa la puerta para el principal y la ruta. Orden: marca local,
// marca del backend y luego sondeo secuencial de recursos. Si todos los
// recursos existen se marca el completado en el backend y localmente.
func (g *Gate) Check(ctx context.Context, route string, p domain.Principal, progress *ProgressStore) (*dto.GateResponse, error) {
	if g.IsPublic(route) {
		return &dto.GateResponse{Skipped: true, Reason: SkipPublicRoute}, nil
	}
	if p.Role != entity.RoleAdmin {
		return &dto.GateResponse{Skipped: true, Reason: SkipNotAdmin}, nil
	}
	log := g.log.With().Str("tenant_id", p.TenantID).Logger()

	done, err := progress.LoadProgress(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("onboarding: no se pudo leer la marca local")
	}
	if done {
		return &dto.GateResponse{Completed: true}, nil
	}

	flag, err := g.repos.Tenants.OnboardingFlag(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("onboarding: no se pudo leer la marca del backend")
	case flag != nil && flag.OperationalOnboardingCompleted:
		if err := progress.Complete(ctx); err != nil {
			log.Warn().Err(err).Msg("onboarding: no se pudo guardar la marca local")
		}
		return &dto.GateResponse{Completed: true}, nil
	}

	resume, err := onboarding.Resolve(func(kind onboarding.ResourceKind) (bool, error) {
		n, err := g.count(ctx, kind)
		return n > 0, err
	})
	if err != nil {
		return nil, err
	}
	if resume.ShowWizard {
		log.Info().Str("missing", string(resume.Missing)).Int("start_step", resume.StartStep).Msg("onboarding: asistente pendiente")
		return &dto.GateResponse{Resume: resume}, nil
	}

	// Autocorrección: el tenant ya tiene todos los recursos.
	if err := g.repos.Tenants.MarkOnboardingCompleted(ctx); err != nil {
		log.Warn().Err(err).Msg("onboarding: no se pudo marcar el completado en el backend")
	}
	if err := progress.Complete(ctx); err != nil {
		log.Warn().Err(err).Msg("onboarding: no se pudo guardar la marca local")
	}
	return &dto.GateResponse{Completed: true, SelfHealed: true, Resume: resume}, nil
}

func (g *Gate) count(ctx context.Context, kind onboarding.ResourceKind) (int, error) {
	switch kind {
	case onboarding.ResourceOutlets:
		return g.repos.Outlets.Count(ctx)
	case onboarding.ResourceUsers:
		return g.repos.Users.Count(ctx)
	case onboarding.ResourceServices:
		return g.repos.Services.Count(ctx)
	default:
		return g.repos.Staff.Count(ctx)
	}
}
