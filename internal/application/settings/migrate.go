package settings

import (
	"context"
	"fmt"

	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
)

// legacyKey llave suelta de la versión 1, dentro del espacio del tenant.
type legacyKey struct {
	name    string
	section string
	decode  func(doc *entity.TenantSettingsDocument) any
}

// legacyKeys llaves de la versión 1. Los datos comerciales llevan el id del
// tenant en el nombre; el logo y el tema, el slug.
func legacyKeys(p domain.Principal) []legacyKey {
	return []legacyKey{
		{"businessInfo-" + p.TenantID, entity.SectionBusiness, func(d *entity.TenantSettingsDocument) any { return &d.Business }},
		{"notificationSettings", entity.SectionNotifications, func(d *entity.TenantSettingsDocument) any { return &d.Notifications }},
		{"policySettings", entity.SectionPolicies, func(d *entity.TenantSettingsDocument) any { return &d.Policies }},
		{"securitySettings", entity.SectionSecurity, func(d *entity.TenantSettingsDocument) any { return &d.Security }},
		{"regionalSettings", entity.SectionRegional, func(d *entity.TenantSettingsDocument) any { return &d.Regional }},
		{"theme-" + p.TenantSlug, entity.SectionBranding, func(d *entity.TenantSettingsDocument) any { return &d.Branding }},
		{"logo-" + p.TenantSlug, entity.SectionBranding, func(d *entity.TenantSettingsDocument) any { return &d.Branding.LogoURL }},
	}
}

// migrate arma el documento desde las llaves sueltas, lo guarda y borra las
// llaves. Sin llaves devuelve los valores por defecto sin escribir nada.
func (s *Service) migrate(ctx context.Context, p domain.Principal) (*entity.TenantSettingsDocument, error) {
	doc := entity.DefaultTenantSettings()
	var migrated []string
	for _, lk := range legacyKeys(p) {
		key := repository.TenantKey(p.TenantID, lk.name)
		found, err := s.store.Get(ctx, key, lk.decode(&doc))
		if err != nil {
			// Una llave corrupta no bloquea la página: se descarta.
			s.log.Warn().Err(err).Str("key", key).Msg("settings: llave anterior ilegible")
			migrated = append(migrated, key)
			continue
		}
		if found {
			migrated = append(migrated, key)
		}
	}
	if len(migrated) == 0 {
		return &doc, nil
	}
	if err := repository.Replace(ctx, s.store, repository.TenantKey(p.TenantID, DocumentName), doc, migrated...); err != nil {
		return nil, fmt.Errorf("settings: guardar documento migrado: %w", err)
	}
	s.log.Info().Str("tenant_id", p.TenantID).Int("keys", len(migrated)).Msg("settings: documento migrado")
	return &doc, nil
}
