package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
)

// ServiceRepository catálogo sobre /api/services.
type ServiceRepository struct{ c *Client }

var _ repository.ServiceRepository = (*ServiceRepository)(nil)

// Services repositorio de servicios.
func (c *Client) Services() *ServiceRepository { return &ServiceRepository{c: c} }

func (r *ServiceRepository) List(ctx context.Context, q repository.ServiceQuery) (*repository.ServicePage, error) {
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
	if q.Category != "" {
		params["category"] = q.Category
	}
	var out page[entity.Service]
	if err := r.c.call(ctx, http.MethodGet, "/api/services", params, nil, &out, "list services"); err != nil {
		return nil, err
	}
	return &repository.ServicePage{Items: out.Items, Total: out.Total, Pages: out.Pages}, nil
}

func (r *ServiceRepository) Get(ctx context.Context, id string) (*entity.Service, error) {
	var out entity.Service
	path := "/api/services/" + url.PathEscape(id)
	if err := r.c.call(ctx, http.MethodGet, path, nil, nil, &out, "get service"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ServiceRepository) Count(ctx context.Context) (int, error) {
	return r.c.count(ctx, "/api/services", "count services")
}

func (r *ServiceRepository) Create(ctx context.Context, svc *entity.Service) (*entity.Service, error) {
	out := *svc
	if err := r.c.call(ctx, http.MethodPost, "/api/services", nil, svc, &out, "create service"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ServiceRepository) Update(ctx context.Context, svc *entity.Service) (*entity.Service, error) {
	out := *svc
	path := "/api/services/" + url.PathEscape(svc.ID)
	if err := r.c.call(ctx, http.MethodPut, path, nil, svc, &out, "update service"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete borrado lógico (permanent=false).
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	path := "/api/services/" + url.PathEscape(id)
	return r.c.call(ctx, http.MethodDelete, path, map[string]string{"permanent": "false"}, nil, nil, "delete service")
}

func (r *ServiceRepository) Restore(ctx context.Context, id string) error {
	path := "/api/services/" + url.PathEscape(id) + "/restore"
	return r.c.call(ctx, http.MethodPost, path, nil, nil, nil, "restore service")
}

func (r *ServiceRepository) CategoryTemplates(ctx context.Context) ([]entity.CategoryTemplate, error) {
	var out page[entity.CategoryTemplate]
	if err := r.c.call(ctx, http.MethodGet, "/api/services/categories/templates", nil, nil, &out, "load category templates"); err != nil {
		return nil, err
	}
	return out.Items, nil
}
