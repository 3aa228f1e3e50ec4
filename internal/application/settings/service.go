// Package settings implementa la página de configuración del tenant: seis
// secciones guardadas en un único documento versionado, cada una validada y
// guardada por separado.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // zonas horarias disponibles aunque el sistema no las tenga

	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/validation"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/jhoicas/clinic-console/pkg/phone"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// DocumentName nombre del documento de configuración dentro del espacio del tenant.
const DocumentName = "settings"

// Service lectura y guardado de la configuración del tenant.
type Service struct {
	store repository.StateStore
	clock clock.Clock
	log   zerolog.Logger

	// mu serializa lectura-modificación-escritura del documento.
	mu sync.Mutex
}

// NewService construye el servicio.
func NewService(store repository.StateStore, clk clock.Clock, log zerolog.Logger) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{store: store, clock: clk, log: log}
}

// Load devuelve el documento del tenant. Si no existe, migra las llaves
// sueltas de la versión anterior o devuelve los valores por defecto.
func (s *Service) Load(ctx context.Context, p domain.Principal) (*entity.TenantSettingsDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, p)
}

// View documento sin datos sensibles.
func (s *Service) View(ctx context.Context, p domain.Principal) (*dto.SettingsView, error) {
	doc, err := s.Load(ctx, p)
	if err != nil {
		return nil, err
	}
	v := dto.NewSettingsView(doc)
	return &v, nil
}

func (s *Service) load(ctx context.Context, p domain.Principal) (*entity.TenantSettingsDocument, error) {
	var doc entity.TenantSettingsDocument
	found, err := s.store.Get(ctx, repository.TenantKey(p.TenantID, DocumentName), &doc)
	if err != nil {
		return nil, fmt.Errorf("settings: leer documento: %w", err)
	}
	if found {
		return &doc, nil
	}
	return s.migrate(ctx, p)
}

// Save decodifica body según la sección y la guarda. Devuelve la sección guardada.
func (s *Service) Save(ctx context.Context, p domain.Principal, section string, body []byte) (any, error) {
	decode := func(dst any) error {
		if err := json.Unmarshal(body, dst); err != nil {
			return domain.NewValidationError("_", "cuerpo inválido para la sección "+section)
		}
		return nil
	}
	switch section {
	case entity.SectionBusiness:
		var in entity.BusinessInfo
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.SaveBusiness(ctx, p, in)
	case entity.SectionNotifications:
		var in entity.NotificationSettings
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.SaveNotifications(ctx, p, in)
	case entity.SectionPolicies:
		var in entity.PolicySettings
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.SavePolicies(ctx, p, in)
	case entity.SectionSecurity:
		var in dto.SecurityInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.SaveSecurity(ctx, p, in)
	case entity.SectionBranding:
		var in entity.BrandingSettings
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.SaveBranding(ctx, p, in)
	case entity.SectionRegional:
		var in entity.RegionalSettings
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.SaveRegional(ctx, p, in)
	}
	return nil, fmt.Errorf("settings: sección %q: %w", section, domain.ErrNotFound)
}

// update aplica fn sobre el documento y lo guarda marcando la sección.
func (s *Service) update(ctx context.Context, p domain.Principal, section string, fn func(doc *entity.TenantSettingsDocument) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(ctx, p)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	doc.Version = entity.TenantSettingsDocumentVersion
	if doc.UpdatedAt == nil {
		doc.UpdatedAt = make(map[string]time.Time)
	}
	doc.UpdatedAt[section] = s.clock.Now().UTC()
	if err := s.store.Put(ctx, repository.TenantKey(p.TenantID, DocumentName), doc); err != nil {
		return fmt.Errorf("settings: guardar %s: %w", section, err)
	}
	s.log.Info().Str("tenant_id", p.TenantID).Str("section", section).Msg("settings: sección guardada")
	return nil
}

// SaveBusiness guarda los datos comerciales; el teléfono se guarda en forma internacional.
func (s *Service) SaveBusiness(ctx context.Context, p domain.Principal, in entity.BusinessInfo) (*entity.BusinessInfo, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	intl, err := phone.Normalize(in.Phone)
	if err != nil {
		return nil, domain.NewValidationError("phone", "debe iniciar con 8 y tener entre 8 y 12 dígitos")
	}
	in.Phone = intl
	in.Name = strings.TrimSpace(in.Name)
	err = s.update(ctx, p, entity.SectionBusiness, func(doc *entity.TenantSettingsDocument) error {
		doc.Business = in
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *Service) SaveNotifications(ctx context.Context, p domain.Principal, in entity.NotificationSettings) (*entity.NotificationSettings, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.BookingReminder && in.ReminderHoursBefore == 0 {
		return nil, domain.NewValidationError("reminder_hours_before", "debe ser mayor que 0 si el recordatorio está activo")
	}
	err := s.update(ctx, p, entity.SectionNotifications, func(doc *entity.TenantSettingsDocument) error {
		doc.Notifications = in
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *Service) SavePolicies(ctx context.Context, p domain.Principal, in entity.PolicySettings) (*entity.PolicySettings, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	err := s.update(ctx, p, entity.SectionPolicies, func(doc *entity.TenantSettingsDocument) error {
		doc.Policies = in
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// SaveSecurity guarda las banderas y, si viene, el nuevo PIN como hash bcrypt.
func (s *Service) SaveSecurity(ctx context.Context, p domain.Principal, in dto.SecurityInput) (*dto.SecurityView, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var hash string
	if in.ManagerPIN != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(in.ManagerPIN), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("settings: hash del PIN: %w", err)
		}
		hash = string(h)
	}
	var out dto.SecurityView
	err := s.update(ctx, p, entity.SectionSecurity, func(doc *entity.TenantSettingsDocument) error {
		if hash == "" {
			hash = doc.Security.ManagerPINHash
		}
		if in.ManagerPINRequired && hash == "" {
			return domain.NewValidationError("manager_pin", "es obligatorio si se exige PIN de gerente")
		}
		doc.Security = entity.SecuritySettings{
			TwoFactorRequired:     in.TwoFactorRequired,
			SessionTimeoutMinutes: in.SessionTimeoutMinutes,
			ManagerPINRequired:    in.ManagerPINRequired,
			ManagerPINHash:        hash,
		}
		out = dto.NewSecurityView(doc.Security)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyPIN compara pin con el hash guardado. ErrNotFound si no hay PIN configurado.
func (s *Service) VerifyPIN(ctx context.Context, p domain.Principal, pin string) (bool, error) {
	doc, err := s.Load(ctx, p)
	if err != nil {
		return false, err
	}
	if doc.Security.ManagerPINHash == "" {
		return false, fmt.Errorf("settings: PIN de gerente no configurado: %w", domain.ErrNotFound)
	}
	err = bcrypt.CompareHashAndPassword([]byte(doc.Security.ManagerPINHash), []byte(pin))
	return err == nil, nil
}

func (s *Service) SaveBranding(ctx context.Context, p domain.Principal, in entity.BrandingSettings) (*entity.BrandingSettings, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	in.PrimaryColor = strings.ToUpper(in.PrimaryColor)
	in.SecondaryColor = strings.ToUpper(in.SecondaryColor)
	in.AccentColor = strings.ToUpper(in.AccentColor)
	err := s.update(ctx, p, entity.SectionBranding, func(doc *entity.TenantSettingsDocument) error {
		doc.Branding = in
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// SaveRegional valida moneda ISO 4217, zona horaria IANA e idioma BCP 47.
func (s *Service) SaveRegional(ctx context.Context, p domain.Principal, in entity.RegionalSettings) (*entity.RegionalSettings, error) {
	verr := &domain.ValidationError{}
	if err := validation.Merge(verr, validation.Struct(in)); err != nil {
		return nil, err
	}
	if _, ok := verr.Fields["currency"]; !ok {
		unit, err := currency.ParseISO(in.Currency)
		if err != nil {
			verr.Add("currency", "no es un código ISO 4217 válido")
		} else {
			in.Currency = unit.String()
		}
	}
	if _, ok := verr.Fields["timezone"]; !ok {
		if _, err := time.LoadLocation(in.Timezone); err != nil {
			verr.Add("timezone", "no es una zona horaria válida")
		}
	}
	if _, ok := verr.Fields["language"]; !ok {
		tag, err := language.Parse(in.Language)
		if err != nil {
			verr.Add("language", "no es un idioma válido")
		} else {
			in.Language = tag.String()
		}
	}
	if !verr.Empty() {
		return nil, verr
	}
	err := s.update(ctx, p, entity.SectionRegional, func(doc *entity.TenantSettingsDocument) error {
		doc.Regional = in
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &in, nil
}
