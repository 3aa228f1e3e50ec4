package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-console/internal/application/auth"
	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/session"
	"github.com/jhoicas/clinic-console/internal/application/settings"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/jhoicas/clinic-console/internal/infrastructure/memstore"
	apphttp "github.com/jhoicas/clinic-console/internal/interfaces/http"
)

type fakeTenants struct {
	repository.TenantRepository
	calls int
	err   error
}

func (f *fakeTenants) Register(_ context.Context, in entity.Registration) (*entity.RegistrationResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &entity.RegistrationResult{
		Tenant: entity.Tenant{ID: testTenantID, Slug: "klinik-ayu"},
		User:   entity.User{ID: testUserID},
	}, nil
}

type consoleApp struct {
	app      *fiber.App
	tenants  *fakeTenants
	sessions *session.Registry
}

func newConsoleApp() *consoleApp {
	clk := clock.NewFake(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))
	tenants := &fakeTenants{}
	sessions := session.NewRegistry()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler("/settings/subscription", zerolog.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		Settings:  settings.NewService(memstore.New(), clk, zerolog.Nop()),
		AuthUC:    auth.NewAuthUseCase(tenants, clk, zerolog.Nop()),
		Sessions:  sessions,
		JWTSecret: testJWTSecret,
		JWTIssuer: testIssuer,
	})
	return &consoleApp{app: app, tenants: tenants, sessions: sessions}
}

func (a *consoleApp) do(t *testing.T, method, path, role, body string) (*http.Response, dto.ErrorResponse) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	var e dto.ErrorResponse
	if resp.StatusCode >= 400 {
		_ = json.NewDecoder(resp.Body).Decode(&e)
	}
	return resp, e
}

const registerBody = `{
	"business_name": "Klinik Ayu",
	"business_phone": "812345678",
	"business_email": "hola@ayu.id",
	"business_type": "clinic",
	"admin_name": "Ayu Pratiwi",
	"admin_email": "ayu@ayu.id",
	"password": "Rahasia123",
	"confirm_password": "Rahasia123",
	"accept_terms": true,
	"accept_privacy": true
}`

func TestRegister_Publico(t *testing.T) {
	a := newConsoleApp()
	resp, _ := a.do(t, http.MethodPost, "/console/register", "", registerBody)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.RegisterResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "klinik-ayu", out.TenantSlug)
	assert.Equal(t, 1, a.tenants.calls)
}

func TestRegister_ErroresPorCampo(t *testing.T) {
	a := newConsoleApp()
	body := strings.Replace(registerBody, `"accept_terms": true`, `"accept_terms": false`, 1)
	resp, e := a.do(t, http.MethodPost, "/console/register", "", body)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "accept_terms")
	assert.Zero(t, a.tenants.calls, "no se llama al backend con el formulario inválido")
}

func TestRegister_CuerpoInvalido(t *testing.T) {
	a := newConsoleApp()
	resp, e := a.do(t, http.MethodPost, "/console/register", "", `{"business_name":`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", e.Code)
}

func TestRegister_ConflictoDelBackend(t *testing.T) {
	a := newConsoleApp()
	a.tenants.err = &domain.BackendError{Status: 409, Message: "slug en uso"}
	resp, e := a.do(t, http.MethodPost, "/console/register", "", registerBody)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", e.Code)
}

func TestProtegidas_RequierenToken(t *testing.T) {
	a := newConsoleApp()
	resp, e := a.do(t, http.MethodGet, "/console/settings", "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", e.Code)
}

func TestSettings_LecturaYGuardadoPorRol(t *testing.T) {
	a := newConsoleApp()

	resp, _ := a.do(t, http.MethodGet, "/console/settings", "staff", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view dto.SettingsView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	resp.Body.Close()
	assert.Equal(t, "IDR", view.Regional.Currency)

	regional := `{"currency":"usd","timezone":"Asia/Jakarta","date_format":"YYYY-MM-DD","language":"en-us"}`
	resp, e := a.do(t, http.MethodPut, "/console/settings/regional", "staff", regional)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", e.Code)

	resp, _ = a.do(t, http.MethodPut, "/console/settings/regional", "manager", regional)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var saved entity.RegionalSettings
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	resp.Body.Close()
	assert.Equal(t, "USD", saved.Currency)

	resp, e = a.do(t, http.MethodPut, "/console/settings/billing", "admin", `{}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestSettings_VerificarPIN(t *testing.T) {
	a := newConsoleApp()
	resp, _ := a.do(t, http.MethodPut, "/console/settings/security", "admin",
		`{"session_timeout_minutes":30,"manager_pin_required":true,"manager_pin":"4321"}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for pin, want := range map[string]bool{"4321": true, "0000": false} {
		resp, _ = a.do(t, http.MethodPost, "/console/settings/security/verify-pin", "staff", `{"pin":"`+pin+`"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]bool
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		resp.Body.Close()
		assert.Equal(t, want, out["valid"], pin)
	}
}

func TestWizard_SoloAdmin(t *testing.T) {
	a := newConsoleApp()
	resp, e := a.do(t, http.MethodPost, "/console/onboarding/wizard/next", "manager", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", e.Code)
}

func TestLogout_DestruyeLaSesion(t *testing.T) {
	a := newConsoleApp()
	a.sessions.Get(domain.Principal{UserID: testUserID, TenantID: testTenantID})
	require.Equal(t, 1, a.sessions.Len())

	resp, _ := a.do(t, http.MethodPost, "/console/session/logout", "staff", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, a.sessions.Len())
}
