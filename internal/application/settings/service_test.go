package settings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/jhoicas/clinic-console/internal/infrastructure/memstore"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var principal = domain.Principal{TenantID: "t1", TenantSlug: "klinik-ayu", UserID: "u1", Role: entity.RoleAdmin}

func newService() (*Service, *memstore.Store) {
	store := memstore.New()
	return NewService(store, clock.NewFake(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)), zerolog.Nop()), store
}

func TestLoad_DefaultsWithoutWriting(t *testing.T) {
	svc, store := newService()
	doc, err := svc.Load(context.Background(), principal)
	require.NoError(t, err)
	assert.Equal(t, entity.TenantSettingsDocumentVersion, doc.Version)
	assert.Equal(t, "Asia/Jakarta", doc.Regional.Timezone)
	assert.Zero(t, store.Len())
}

func TestLoad_MigratesLegacyKeys(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	key := func(n string) string { return repository.TenantKey("t1", n) }
	require.NoError(t, store.Put(ctx, key("businessInfo-t1"), map[string]any{"name": "Klinik Ayu", "phone": "+62811111111", "email": "a@b.id"}))
	require.NoError(t, store.Put(ctx, key("policySettings"), map[string]any{"cancellation_hours": 48, "max_advance_days": 30}))
	require.NoError(t, store.Put(ctx, key("theme-klinik-ayu"), map[string]any{"primary_color": "#112233"}))
	require.NoError(t, store.Put(ctx, key("logo-klinik-ayu"), "https://cdn.example.com/logo.png"))

	doc, err := svc.Load(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, "Klinik Ayu", doc.Business.Name)
	assert.Equal(t, 48, doc.Policies.CancellationHours)
	assert.Equal(t, "#112233", doc.Branding.PrimaryColor)
	assert.Equal(t, "https://cdn.example.com/logo.png", doc.Branding.LogoURL)
	assert.Equal(t, "IDR", doc.Regional.Currency, "las secciones sin llave quedan por defecto")

	assert.Equal(t, 1, store.Len(), "solo queda el documento versionado")
	assert.NotNil(t, store.Raw(key(DocumentName)))
}

func TestSave_SectionsAreIndependent(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.SaveBusiness(ctx, principal, entity.BusinessInfo{Name: "Klinik Ayu", Phone: "0812345678", Email: "hola@ayu.id"})
	require.NoError(t, err)
	_, err = svc.SavePolicies(ctx, principal, entity.PolicySettings{CancellationHours: 12, MaxAdvanceDays: 90})
	require.NoError(t, err)

	doc, err := svc.Load(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, "+62812345678", doc.Business.Phone)
	assert.Equal(t, 12, doc.Policies.CancellationHours)
	assert.Contains(t, doc.UpdatedAt, entity.SectionBusiness)
	assert.Contains(t, doc.UpdatedAt, entity.SectionPolicies)
	assert.NotContains(t, doc.UpdatedAt, entity.SectionRegional)

	_, err = svc.SavePolicies(ctx, principal, entity.PolicySettings{NoShowFeePercent: 150})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "no_show_fee_percent")
	assert.Contains(t, verr.Fields, "max_advance_days")

	doc, err = svc.Load(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, 12, doc.Policies.CancellationHours, "un guardado inválido no toca el documento")
	assert.Equal(t, "Klinik Ayu", doc.Business.Name)
}

func TestSave_DispatchBySection(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	got, err := svc.Save(ctx, principal, entity.SectionBranding, []byte(`{"primary_color":"#aabbcc","logo_url":"https://x.id/l.png"}`))
	require.NoError(t, err)
	assert.Equal(t, "#AABBCC", got.(*entity.BrandingSettings).PrimaryColor)

	_, err = svc.Save(ctx, principal, entity.SectionBranding, []byte(`{"primary_color":"#abc"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "solo #RRGGBB")

	_, err = svc.Save(ctx, principal, "billing", []byte(`{}`))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Save(ctx, principal, entity.SectionPolicies, []byte(`{`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSecurity_PINHashAndVerify(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	_, err := svc.SaveSecurity(ctx, principal, dto.SecurityInput{SessionTimeoutMinutes: 30, ManagerPINRequired: true})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "manager_pin")

	_, err = svc.SaveSecurity(ctx, principal, dto.SecurityInput{SessionTimeoutMinutes: 30, ManagerPIN: "12a4"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "manager_pin")

	_, err = svc.VerifyPIN(ctx, principal, "1234")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	view, err := svc.SaveSecurity(ctx, principal, dto.SecurityInput{SessionTimeoutMinutes: 30, ManagerPINRequired: true, ManagerPIN: "482913"})
	require.NoError(t, err)
	assert.True(t, view.ManagerPINSet)
	assert.NotContains(t, string(store.Raw(repository.TenantKey("t1", DocumentName))), "482913")

	ok, err := svc.VerifyPIN(ctx, principal, "482913")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.VerifyPIN(ctx, principal, "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	// Sin PIN nuevo se conserva el anterior.
	_, err = svc.SaveSecurity(ctx, principal, dto.SecurityInput{SessionTimeoutMinutes: 45, ManagerPINRequired: true})
	require.NoError(t, err)
	ok, err = svc.VerifyPIN(ctx, principal, "482913")
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := svc.View(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, 45, v.Security.SessionTimeoutMinutes)
	assert.True(t, v.Security.ManagerPINSet)
}

func TestRegional_Validation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	got, err := svc.SaveRegional(ctx, principal, entity.RegionalSettings{Currency: "usd", Timezone: "Asia/Makassar", DateFormat: "YYYY-MM-DD", Language: "en-us"})
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "en-US", got.Language)

	_, err = svc.SaveRegional(ctx, principal, entity.RegionalSettings{Currency: "XXZ", Timezone: "Mars/Olympus", DateFormat: "DD-MM", Language: "??"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, f := range []string{"currency", "timezone", "date_format", "language"} {
		assert.Contains(t, verr.Fields, f)
	}
}

func TestNotifications_ReminderNeedsHours(t *testing.T) {
	svc, _ := newService()
	_, err := svc.SaveNotifications(context.Background(), principal, entity.NotificationSettings{BookingReminder: true})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "reminder_hours_before")
}

func TestFormatMoney(t *testing.T) {
	amount := decimal.NewFromInt(1_500_000)
	en := FormatMoney(amount, entity.RegionalSettings{Currency: "IDR", Language: "en"})
	assert.True(t, strings.HasPrefix(en, "IDR "), en)
	assert.Contains(t, en, "1,500,000")

	id := FormatMoney(amount, entity.RegionalSettings{Currency: "IDR", Language: "id"})
	assert.Contains(t, id, "1.500.000")

	fallback := FormatMoney(amount, entity.RegionalSettings{Currency: "???", Language: "??"})
	assert.True(t, strings.HasPrefix(fallback, "IDR "), fallback)
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "07/03/2026", FormatDate(d, entity.RegionalSettings{DateFormat: "DD/MM/YYYY"}))
	assert.Equal(t, "03/07/2026", FormatDate(d, entity.RegionalSettings{DateFormat: "MM/DD/YYYY"}))
	assert.Equal(t, "2026-03-07", FormatDate(d, entity.RegionalSettings{DateFormat: "YYYY-MM-DD"}))
	assert.Equal(t, "07/03/2026", FormatDate(d, entity.RegionalSettings{}))
}
