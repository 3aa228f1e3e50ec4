package backend

import (
	"context"
	"net/http"

	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
)

// OutletRepository sedes sobre /api/outlets.
type OutletRepository struct{ c *Client }

// UserRepository usuarios sobre /api/users.
type UserRepository struct{ c *Client }

var (
	_ repository.OutletRepository = (*OutletRepository)(nil)
	_ repository.UserRepository   = (*UserRepository)(nil)
)

// Outlets repositorio de sedes.
func (c *Client) Outlets() *OutletRepository { return &OutletRepository{c: c} }

// Users repositorio de usuarios.
func (c *Client) Users() *UserRepository { return &UserRepository{c: c} }

func (r *OutletRepository) List(ctx context.Context) ([]entity.Outlet, error) {
	var out page[entity.Outlet]
	if err := r.c.call(ctx, http.MethodGet, "/api/outlets", nil, nil, &out, "list outlets"); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (r *OutletRepository) Count(ctx context.Context) (int, error) {
	return r.c.count(ctx, "/api/outlets", "count outlets")
}

// Create envía la sede; la respuesta se decodifica sobre una copia de la entrada
// para conservar los campos que el backend no devuelva.
func (r *OutletRepository) Create(ctx context.Context, outlet *entity.Outlet) (*entity.Outlet, error) {
	out := *outlet
	if err := r.c.call(ctx, http.MethodPost, "/api/outlets", nil, outlet, &out, "create outlet"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return r.c.count(ctx, "/api/users", "count users")
}
