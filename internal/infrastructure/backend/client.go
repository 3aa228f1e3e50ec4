// Package backend implementa los puertos de repositorio sobre la API REST del
// backend de reservas usando resty. El token del usuario se toma del principal
// del contexto en cada llamada.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/rs/zerolog"
)

// Config parámetros de conexión al backend.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// Client cliente REST compartido por todos los repositorios.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// New construye el cliente. Solo los GET se reintentan, ante fallos de red o 5xx.
func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	log = log.With().Str("component", "backend").Logger()
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
				return false
			}
			return err != nil || r.StatusCode() >= 500
		}).
		OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
			log.Debug().
				Str("method", r.Request.Method).
				Str("url", r.Request.URL).
				Int("status", r.StatusCode()).
				Dur("elapsed", r.Time()).
				Msg("backend: respuesta")
			return nil
		})
	return &Client{http: client, log: log}
}

// request prepara una petición autenticada con el token del principal.
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	p, ok := domain.PrincipalFrom(ctx)
	if !ok || p.Token == "" {
		return nil, fmt.Errorf("backend: sin credenciales en el contexto: %w", domain.ErrUnauthorized)
	}
	return c.http.R().SetContext(ctx).SetAuthToken(p.Token), nil
}

// do ejecuta la petición y traduce los errores. action describe la operación
// para el mensaje genérico ("failed to <action>").
func (c *Client) do(req *resty.Request, method, path, action string) (*resty.Response, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend: fallo de red")
		return nil, &domain.BackendError{Message: fmt.Sprintf("failed to %s: %v", action, err)}
	}
	if resp.IsError() {
		return resp, decodeError(resp.StatusCode(), resp.Body(), action)
	}
	return resp, nil
}

// call petición autenticada con cuerpo opcional y decodificación de la respuesta en out.
func (c *Client) call(ctx context.Context, method, path string, query map[string]string, body, out any, action string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := c.do(req, method, path, action)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &domain.BackendError{Status: resp.StatusCode(), Message: fmt.Sprintf("failed to %s: respuesta inválida: %v", action, err)}
	}
	return nil
}

// ── Errores ────────────────────────────────────────────────────────────────

type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// locPrefixes primer elemento de loc que no es un campo.
var locPrefixes = map[string]bool{"body": true, "query": true, "path": true}

// decodeError convierte una respuesta no 2xx: errores por campo en
// {error|detail: [{loc,msg}]} se vuelven ValidationError; el resto BackendError.
func decodeError(status int, body []byte, action string) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	msg := eb.Message
	for _, raw := range []json.RawMessage{eb.Error, eb.Detail} {
		if len(raw) == 0 {
			continue
		}
		var fields []fieldError
		if err := json.Unmarshal(raw, &fields); err == nil && len(fields) > 0 {
			verr := &domain.ValidationError{}
			for _, f := range fields {
				verr.Add(fieldName(f.Loc), f.Msg)
			}
			return verr
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" && msg == "" {
			msg = s
		}
	}
	if msg == "" {
		msg = "failed to " + action
	}
	return &domain.BackendError{Status: status, Message: msg}
}

func fieldName(loc []any) string {
	parts := make([]string, 0, len(loc))
	for i, p := range loc {
		s := fmt.Sprint(p)
		if i == 0 && locPrefixes[s] && len(loc) > 1 {
			continue
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "_"
	}
	return strings.Join(parts, ".")
}

// ── Listados ───────────────────────────────────────────────────────────────

// page sobre de listado: acepta un arreglo plano o {items|data, total, pages}.
type page[T any] struct {
	Items []T
	Total int
	Pages int
}

func (p *page[T]) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(b, &p.Items); err != nil {
			return err
		}
		p.Total, p.Pages = len(p.Items), 1
		return nil
	}
	var env struct {
		Items []T  `json:"items"`
		Data  []T  `json:"data"`
		Total *int `json:"total"`
		Pages int  `json:"pages"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	p.Items = env.Items
	if p.Items == nil {
		p.Items = env.Data
	}
	p.Total = len(p.Items)
	if env.Total != nil {
		p.Total = *env.Total
	}
	p.Pages = env.Pages
	return nil
}

// count total de registros de un listado pidiendo una página mínima.
func (c *Client) count(ctx context.Context, path, action string) (int, error) {
	var out page[json.RawMessage]
	if err := c.call(ctx, http.MethodGet, path, map[string]string{"page": "1", "size": "1"}, nil, &out, action); err != nil {
		return 0, err
	}
	return out.Total, nil
}
