package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
)

// CustomerRepository clientes sobre /api/customers.
type CustomerRepository struct{ c *Client }

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

// Customers repositorio de clientes.
func (c *Client) Customers() *CustomerRepository { return &CustomerRepository{c: c} }

func (r *CustomerRepository) List(ctx context.Context, q repository.CustomerQuery) (*entity.CustomerPage, error) {
	params := map[string]string{}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.Size > 0 {
		params["size"] = strconv.Itoa(q.Size)
	}
	if q.Search != "" {
		params["search"] = q.Search
	}
	if q.CreatedFrom != "" {
		params["created_from"] = q.CreatedFrom
	}
	if q.CreatedTo != "" {
		params["created_to"] = q.CreatedTo
	}
	var out page[entity.Customer]
	if err := r.c.call(ctx, http.MethodGet, "/api/customers", params, nil, &out, "load customers"); err != nil {
		return nil, err
	}
	return &entity.CustomerPage{Items: out.Items, Total: out.Total, Pages: out.Pages}, nil
}

// Statistics resumen del backend; acepta {statistics:{...}} o el objeto plano.
func (r *CustomerRepository) Statistics(ctx context.Context) (entity.CustomerStatistics, error) {
	var raw map[string]json.RawMessage
	if err := r.c.call(ctx, http.MethodGet, "/api/customers/statistics/summary", nil, nil, &raw, "load customer statistics"); err != nil {
		return nil, err
	}
	body := raw
	if inner, ok := raw["statistics"]; ok {
		body = nil
		if err := json.Unmarshal(inner, &body); err != nil {
			return nil, decodeError(http.StatusBadGateway, nil, "decode customer statistics")
		}
	}
	stats := make(entity.CustomerStatistics, len(body))
	for k, v := range body {
		var val any
		_ = json.Unmarshal(v, &val)
		stats[k] = val
	}
	return stats, nil
}

// FindByPhone busca por teléfono exacto (+62…). Devuelve (nil, nil) si no hay coincidencia.
func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	res, err := r.List(ctx, repository.CustomerQuery{Page: 1, Size: 10, Search: phone})
	if err != nil {
		return nil, err
	}
	for i := range res.Items {
		if res.Items[i].Phone == phone {
			return &res.Items[i], nil
		}
	}
	return nil, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) (*entity.Customer, error) {
	out := *c
	if err := r.c.call(ctx, http.MethodPost, "/api/customers", nil, c, &out, "create customer"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) (*entity.Customer, error) {
	out := *c
	path := "/api/customers/" + url.PathEscape(c.ID)
	if err := r.c.call(ctx, http.MethodPut, path, nil, c, &out, "update customer"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete borrado lógico (permanent=false).
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	path := "/api/customers/" + url.PathEscape(id)
	return r.c.call(ctx, http.MethodDelete, path, map[string]string{"permanent": "false"}, nil, nil, "delete customer")
}

func (r *CustomerRepository) Restore(ctx context.Context, id string) error {
	path := "/api/customers/" + url.PathEscape(id) + "/restore"
	return r.c.call(ctx, http.MethodPost, path, nil, nil, nil, "restore customer")
}
