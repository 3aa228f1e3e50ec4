// Package customers implementa la página de clientes: listado con estadísticas
// derivadas, alta y edición validadas, borrado con ventana de deshacer y exportación.
package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/session"
	"github.com/jhoicas/clinic-console/internal/application/softdelete"
	"github.com/jhoicas/clinic-console/internal/application/validation"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/jhoicas/clinic-console/pkg/phone"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const undoSessionKey = "customers.undo"

// Exporter genera el archivo descargable del listado.
type Exporter interface {
	Customers(ctx context.Context, items []dto.CustomerView, generatedAt time.Time) ([]byte, error)
}

// Service casos de uso de la página de clientes.
type Service struct {
	repo     repository.CustomerRepository
	exporter Exporter
	undo     time.Duration
	clock    clock.Clock
	log      zerolog.Logger
}

// NewService construye el servicio. undo es la duración de la ventana de deshacer.
func NewService(repo repository.CustomerRepository, exporter Exporter, undo time.Duration, clk clock.Clock, log zerolog.Logger) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{repo: repo, exporter: exporter, undo: undo, clock: clk, log: log}
}

// List pide la página al backend junto con el resumen de estadísticas. El
// resumen es opcional: si falla se registra y la respuesta lleva statistics null.
func (s *Service) List(ctx context.Context, req dto.CustomerListRequest) (*dto.CustomerListResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	p := req.Paging()

	var (
		page  *entity.CustomerPage
		stats entity.CustomerStatistics
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.repo.List(gctx, repository.CustomerQuery{
			Page:        p.Page,
			Size:        p.Size,
			Search:      strings.TrimSpace(req.Search),
			CreatedFrom: req.CreatedFrom,
			CreatedTo:   req.CreatedTo,
		})
		return err
	})
	g.Go(func() error {
		var err error
		if stats, err = s.repo.Statistics(gctx); err != nil {
			s.log.Warn().Err(err).Msg("customers: resumen de estadísticas no disponible")
			stats = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("customers: listar: %w", err)
	}

	now := s.clock.Now()
	all := views(page.Items, now)
	return &dto.CustomerListResponse{
		Items:      Filter(all, req.Segment, req.Text),
		Page:       dto.PageResponse{Page: p.Page, Size: p.Size, Total: page.Total, Pages: page.Pages},
		Summary:    Summarize(all),
		Statistics: stats,
	}, nil
}

func views(items []entity.Customer, now time.Time) []dto.CustomerView {
	out := make([]dto.CustomerView, 0, len(items))
	for _, c := range items {
		segs := c.Segments(now)
		if segs == nil {
			segs = []string{}
		}
		out = append(out, dto.CustomerView{Customer: c, Segments: segs})
	}
	return out
}

// Filter filtra localmente por segmento y por texto (nombre, teléfono o email).
func Filter(items []dto.CustomerView, segment, text string) []dto.CustomerView {
	text = strings.ToLower(strings.TrimSpace(text))
	out := make([]dto.CustomerView, 0, len(items))
	for _, v := range items {
		if segment != "" && !contains(v.Segments, segment) {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(v.Name), text) &&
			!strings.Contains(v.Phone, text) &&
			!strings.Contains(strings.ToLower(v.Email), text) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Summarize totales y conteo por segmento de la página.
func Summarize(items []dto.CustomerView) dto.CustomerSummary {
	sum := dto.CustomerSummary{Count: len(items), TotalSpent: decimal.Zero}
	for _, v := range items {
		sum.TotalVisits += v.TotalVisits
		sum.TotalSpent = sum.TotalSpent.Add(v.TotalSpent)
		for _, seg := range v.Segments {
			switch seg {
			case entity.SegmentNew:
				sum.New++
			case entity.SegmentLoyal:
				sum.Loyal++
			case entity.SegmentVIP:
				sum.VIP++
			case entity.SegmentInactive:
				sum.Inactive++
			}
		}
	}
	return sum
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Create valida y crea el cliente.
func (s *Service) Create(ctx context.Context, in dto.CustomerInput) (*entity.Customer, error) {
	c, err := s.build(in)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("customers: crear: %w", err)
	}
	return created, nil
}

// Update valida y reemplaza los datos editables del cliente.
func (s *Service) Update(ctx context.Context, id string, in dto.CustomerInput) (*entity.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("id", "es obligatorio")
	}
	c, err := s.build(in)
	if err != nil {
		return nil, err
	}
	c.ID = id
	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("customers: actualizar %s: %w", id, err)
	}
	return updated, nil
}

func (s *Service) build(in dto.CustomerInput) (*entity.Customer, error) {
	verr := &domain.ValidationError{}
	if err := validation.Merge(verr, validation.Struct(in)); err != nil {
		return nil, err
	}
	if in.BirthDate != nil && in.BirthDate.After(s.clock.Now()) {
		verr.Add("birth_date", "no puede estar en el futuro")
	}
	if !verr.Empty() {
		return nil, verr
	}
	intl, err := phone.Normalize(in.Phone)
	if err != nil {
		return nil, domain.NewValidationError("phone", "debe iniciar con 8 y tener entre 8 y 12 dígitos")
	}
	return &entity.Customer{
		Name:      strings.TrimSpace(in.Name),
		Phone:     intl,
		Email:     strings.TrimSpace(in.Email),
		Gender:    in.Gender,
		BirthDate: in.BirthDate,
		Notes:     strings.TrimSpace(in.Notes),
	}, nil
}

// window ventana de deshacer del listado para la sesión.
func (s *Service) window(sess *session.Session) (*softdelete.Window, error) {
	return session.Value(sess, undoSessionKey, func() (*softdelete.Window, error) {
		log := s.log.With().Str("tenant_id", sess.Principal.TenantID).Logger()
		return softdelete.NewWindow("customers", s.undo, s.repo.Delete, s.repo.Restore, s.clock, log), nil
	})
}

// Delete borrado lógico con ventana de deshacer; reemplaza la ventana anterior.
func (s *Service) Delete(ctx context.Context, sess *session.Session, id, label string) (*softdelete.Pending, error) {
	w, err := s.window(sess)
	if err != nil {
		return nil, err
	}
	return w.Delete(ctx, id, label)
}

// Undo restaura el cliente de la ventana activa.
func (s *Service) Undo(ctx context.Context, sess *session.Session, token string) (*softdelete.Pending, error) {
	w, err := s.window(sess)
	if err != nil {
		return nil, err
	}
	return w.Undo(ctx, token)
}

// PendingUndo ventana activa de la sesión, si existe.
func (s *Service) PendingUndo(sess *session.Session) (*softdelete.Pending, error) {
	w, err := s.window(sess)
	if err != nil {
		return nil, err
	}
	return w.Current(), nil
}

// Export genera el archivo con la página filtrada que vería el usuario.
func (s *Service) Export(ctx context.Context, req dto.CustomerListRequest) ([]byte, error) {
	list, err := s.List(ctx, req)
	if err != nil {
		return nil, err
	}
	out, err := s.exporter.Customers(ctx, list.Items, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("customers: exportar: %w", err)
	}
	return out, nil
}
