// seed_onboarding recorre el asistente de onboarding sin interfaz a partir de un
// plan JSON: sedes, servicios y staff con su disponibilidad. Sirve para preparar
// tenants de demo y de QA contra el backend real.
//
// Uso: BACKEND_TOKEN=<jwt> go run ./cmd/seed_onboarding [plan.json]
// Por defecto lee plan.json del directorio actual.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/onboarding"
	"github.com/jhoicas/clinic-console/internal/application/session"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/infrastructure/backend"
	"github.com/jhoicas/clinic-console/internal/infrastructure/statestore"
	"github.com/jhoicas/clinic-console/pkg/config"
	"github.com/jhoicas/clinic-console/pkg/jwt"
	"github.com/jhoicas/clinic-console/pkg/logger"
)

// plan contenido del archivo de entrada.
type plan struct {
	Outlets  []dto.OutletInput  `json:"outlets"`
	Products []dto.ProductInput `json:"products"`
	Staff    []staffPlan        `json:"staff"`
}

// staffPlan staff con los servicios por nombre y sus bloques de disponibilidad.
type staffPlan struct {
	dto.StaffInput
	Services     []string                `json:"services"`
	Availability []dto.AvailabilityInput `json:"availability"`
}

func main() {
	planPath := "plan.json"
	if len(os.Args) > 1 {
		planPath = os.Args[1]
	}
	if err := run(planPath); err != nil {
		fmt.Fprintln(os.Stderr, "seed_onboarding:", err)
		os.Exit(1)
	}
}

func run(planPath string) error {
	raw, err := os.ReadFile(planPath)
	if err != nil {
		return fmt.Errorf("leer plan: %w", err)
	}
	var p plan
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("decodificar plan: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	token := os.Getenv("BACKEND_TOKEN")
	if token == "" {
		return fmt.Errorf("BACKEND_TOKEN es obligatorio")
	}
	claims, err := jwt.Parse(cfg.JWT.Secret, cfg.JWT.Issuer, token)
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}
	principal := domain.Principal{
		UserID:     claims.UserID,
		TenantID:   claims.TenantID,
		TenantSlug: claims.TenantSlug,
		Role:       claims.Role,
		Token:      token,
	}
	ctx := domain.WithPrincipal(context.Background(), principal)

	store, closeStore, err := statestore.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	api := backend.New(backend.Config{
		BaseURL:    cfg.Backend.BaseURL,
		Timeout:    cfg.Backend.Timeout,
		RetryCount: cfg.Backend.RetryCount,
	}, log.Component("backend"))
	svc := onboarding.NewService(onboarding.Repositories{
		Outlets:      api.Outlets(),
		Users:        api.Users(),
		Services:     api.Services(),
		Staff:        api.Staff(),
		Availability: api.Availability(),
		Tenants:      api.Tenants(),
	}, store, cfg.Console.PublicRoutes, log.Component("onboarding"))

	sessions := session.NewRegistry()
	defer sessions.End(principal)
	w, err := svc.Wizard(ctx, sessions.Get(principal))
	if err != nil {
		return err
	}
	return seed(ctx, w, p, log)
}

// seed recorre los tres pasos con el plan y completa el asistente. Si el
// tenant ya lo había completado no crea nada.
func seed(ctx context.Context, w *onboarding.Wizard, p plan, log *logger.Logger) error {
	if w.Progress().IsCompleted() {
		log.Info().Msg("el onboarding ya estaba completado")
		return nil
	}
	w.Mount(ctx, 1)

	for _, in := range p.Outlets {
		d, err := w.AddOutlet(ctx, in)
		if err != nil {
			return fmt.Errorf("sede %q: %w", in.Name, err)
		}
		log.Info().Str("id", d.ID).Str("name", d.Name).Msg("sede creada")
	}
	if _, err := w.Next(ctx); err != nil {
		return fmt.Errorf("paso de sedes: %w", err)
	}

	serviceIDs := make(map[string]string, len(p.Products))
	for _, in := range p.Products {
		d, err := w.AddProduct(ctx, in)
		if err != nil {
			return fmt.Errorf("servicio %q: %w", in.Name, err)
		}
		serviceIDs[d.Name] = d.ID
		log.Info().Str("id", d.ID).Str("name", d.Name).Msg("servicio creado")
	}
	if _, err := w.Next(ctx); err != nil {
		return fmt.Errorf("paso de servicios: %w", err)
	}

	for _, sp := range p.Staff {
		in := sp.StaffInput
		for _, name := range sp.Services {
			id, ok := serviceIDs[name]
			if !ok {
				return fmt.Errorf("staff %q: servicio %q no está en el plan", in.Name, name)
			}
			in.ServiceIDs = append(in.ServiceIDs, id)
		}
		d, err := w.AddStaff(ctx, in)
		if err != nil {
			return fmt.Errorf("staff %q: %w", in.Name, err)
		}
		log.Info().Str("id", d.ID).Str("name", d.Name).Msg("staff creado")
		for _, av := range sp.Availability {
			av.StaffID = d.ID
			if _, err := w.AddAvailability(ctx, av); err != nil {
				return fmt.Errorf("disponibilidad de %q: %w", in.Name, err)
			}
		}
	}

	res, err := w.Complete(ctx)
	if err != nil {
		return fmt.Errorf("completar: %w", err)
	}
	log.Info().Bool("server_marked", res.ServerMarked).Time("completed_at", res.CompletedAt).Msg("onboarding completado")
	return nil
}
