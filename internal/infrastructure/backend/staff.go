package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
)

// StaffRepository staff sobre /api/staff.
type StaffRepository struct{ c *Client }

var _ repository.StaffRepository = (*StaffRepository)(nil)

// Staff repositorio de staff.
func (c *Client) Staff() *StaffRepository { return &StaffRepository{c: c} }

type staffSkills struct {
	ServiceIDs []string `json:"service_ids"`
}

// staffWire forma del staff en la API: los servicios van anidados en skills.
type staffWire struct {
	ID        string      `json:"id,omitempty"`
	TenantID  string      `json:"tenant_id,omitempty"`
	OutletID  string      `json:"outlet_id"`
	Name      string      `json:"name"`
	Position  string      `json:"position"`
	Phone     string      `json:"phone,omitempty"`
	Email     string      `json:"email,omitempty"`
	Skills    staffSkills `json:"skills"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
}

func toStaffWire(s *entity.Staff) staffWire {
	return staffWire{
		ID:        s.ID,
		TenantID:  s.TenantID,
		OutletID:  s.OutletID,
		Name:      s.Name,
		Position:  s.Position,
		Phone:     s.Phone,
		Email:     s.Email,
		Skills:    staffSkills{ServiceIDs: s.ServiceIDs},
		CreatedAt: s.CreatedAt,
	}
}

func (w staffWire) entity() entity.Staff {
	return entity.Staff{
		ID:         w.ID,
		TenantID:   w.TenantID,
		OutletID:   w.OutletID,
		Name:       w.Name,
		Position:   w.Position,
		Phone:      w.Phone,
		Email:      w.Email,
		ServiceIDs: w.Skills.ServiceIDs,
		CreatedAt:  w.CreatedAt,
	}
}

func (r *StaffRepository) List(ctx context.Context) ([]entity.Staff, error) {
	var out page[staffWire]
	if err := r.c.call(ctx, http.MethodGet, "/api/staff", nil, nil, &out, "list staff"); err != nil {
		return nil, err
	}
	list := make([]entity.Staff, 0, len(out.Items))
	for _, w := range out.Items {
		list = append(list, w.entity())
	}
	return list, nil
}

func (r *StaffRepository) Count(ctx context.Context) (int, error) {
	return r.c.count(ctx, "/api/staff", "count staff")
}

func (r *StaffRepository) Create(ctx context.Context, staff *entity.Staff) (*entity.Staff, error) {
	in := toStaffWire(staff)
	out := in
	if err := r.c.call(ctx, http.MethodPost, "/api/staff", nil, in, &out, "create staff"); err != nil {
		return nil, err
	}
	created := out.entity()
	return &created, nil
}

func (r *StaffRepository) PositionTemplates(ctx context.Context) ([]entity.PositionTemplate, error) {
	var out page[entity.PositionTemplate]
	if err := r.c.call(ctx, http.MethodGet, "/api/staff/positions/templates", nil, nil, &out, "load position templates"); err != nil {
		return nil, err
	}
	return out.Items, nil
}
