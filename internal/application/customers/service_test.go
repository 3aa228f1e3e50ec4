package customers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/session"
	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fakes ──────────────────────────────────────────────────────────────────

type fakeRepo struct {
	mu       sync.Mutex
	items    []entity.Customer
	statsErr error
	lastQ    repository.CustomerQuery
	created  []*entity.Customer
	deleted  []string
	restored []string
}

func (f *fakeRepo) List(_ context.Context, q repository.CustomerQuery) (*entity.CustomerPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQ = q
	return &entity.CustomerPage{Items: f.items, Total: len(f.items), Pages: 1}, nil
}

func (f *fakeRepo) Statistics(context.Context) (entity.CustomerStatistics, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return entity.CustomerStatistics{"total_customers": 3}, nil
}

func (f *fakeRepo) FindByPhone(context.Context, string) (*entity.Customer, error) { return nil, nil }

func (f *fakeRepo) Create(_ context.Context, c *entity.Customer) (*entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, c)
	out := *c
	out.ID = "c-new"
	return &out, nil
}

func (f *fakeRepo) Update(_ context.Context, c *entity.Customer) (*entity.Customer, error) {
	out := *c
	return &out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) Restore(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restored = append(f.restored, id)
	return nil
}

type fakeExporter struct{ got []dto.CustomerView }

func (e *fakeExporter) Customers(_ context.Context, items []dto.CustomerView, _ time.Time) ([]byte, error) {
	e.got = items
	return []byte("xlsx"), nil
}

var now = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func fixture() (*Service, *fakeRepo, *fakeExporter, *clock.Fake) {
	recent := now.AddDate(0, 0, -2)
	old := now.AddDate(0, 0, -200)
	repo := &fakeRepo{items: []entity.Customer{
		{ID: "c1", Name: "Ayu Lestari", Phone: "+6281234567", CreatedAt: recent, LastVisitAt: &recent, TotalVisits: 1, TotalSpent: decimal.NewFromInt(150_000)},
		{ID: "c2", Name: "Budi Santoso", Phone: "+6281299999", CreatedAt: old, LastVisitAt: &recent, TotalVisits: 8, TotalSpent: decimal.NewFromInt(6_000_000)},
		{ID: "c3", Name: "Citra", Email: "citra@mail.id", Phone: "+6281355555", CreatedAt: old},
	}}
	exp := &fakeExporter{}
	clk := clock.NewFake(now)
	return NewService(repo, exp, 5*time.Second, clk, zerolog.Nop()), repo, exp, clk
}

func testSession() *session.Session {
	return session.NewRegistry().Get(domain.Principal{TenantID: "t1", UserID: "u1", Role: entity.RoleAdmin, Token: "tok"})
}

// ── Listado ────────────────────────────────────────────────────────────────

func TestList_SegmentsAndSummary(t *testing.T) {
	svc, repo, _, _ := fixture()
	res, err := svc.List(context.Background(), dto.CustomerListRequest{Search: " ayu ", CreatedFrom: "2026-01-01"})
	require.NoError(t, err)

	assert.Equal(t, repository.CustomerQuery{Page: 1, Size: 20, Search: "ayu", CreatedFrom: "2026-01-01"}, repo.lastQ)
	require.Len(t, res.Items, 3)
	assert.Equal(t, []string{entity.SegmentNew}, res.Items[0].Segments)
	assert.Equal(t, []string{entity.SegmentLoyal, entity.SegmentVIP}, res.Items[1].Segments)
	assert.Equal(t, []string{entity.SegmentInactive}, res.Items[2].Segments)

	assert.Equal(t, 3, res.Summary.Count)
	assert.Equal(t, 1, res.Summary.New)
	assert.Equal(t, 1, res.Summary.VIP)
	assert.Equal(t, 9, res.Summary.TotalVisits)
	assert.True(t, res.Summary.TotalSpent.Equal(decimal.NewFromInt(6_150_000)))
	assert.NotNil(t, res.Statistics)
}

func TestList_StatisticsAreBestEffort(t *testing.T) {
	svc, repo, _, _ := fixture()
	repo.statsErr = errors.New("timeout")
	res, err := svc.List(context.Background(), dto.CustomerListRequest{})
	require.NoError(t, err)
	assert.Nil(t, res.Statistics)
	assert.Len(t, res.Items, 3)
}

func TestList_LocalFilters(t *testing.T) {
	svc, _, _, _ := fixture()
	res, err := svc.List(context.Background(), dto.CustomerListRequest{Segment: entity.SegmentVIP})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "c2", res.Items[0].ID)
	assert.Equal(t, 3, res.Summary.Count, "el resumen cubre la página completa")

	res, err = svc.List(context.Background(), dto.CustomerListRequest{Text: "CITRA@"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "c3", res.Items[0].ID)

	_, err = svc.List(context.Background(), dto.CustomerListRequest{Segment: "gold"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "segment")
}

// ── Alta y edición ─────────────────────────────────────────────────────────

func TestCreate_NormalizesPhone(t *testing.T) {
	svc, repo, _, _ := fixture()
	c, err := svc.Create(context.Background(), dto.CustomerInput{Name: " Dewi ", Phone: "0812-3456-789", Gender: "female"})
	require.NoError(t, err)
	assert.Equal(t, "c-new", c.ID)
	assert.Equal(t, "+628123456789", repo.created[0].Phone)
	assert.Equal(t, "Dewi", repo.created[0].Name)
}

func TestCreate_Validation(t *testing.T) {
	svc, repo, _, _ := fixture()
	future := now.Add(48 * time.Hour)
	_, err := svc.Create(context.Background(), dto.CustomerInput{Name: "D", Phone: "712", Email: "x", Gender: "robot", BirthDate: &future})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, f := range []string{"name", "phone", "email", "gender", "birth_date"} {
		assert.Contains(t, verr.Fields, f)
	}
	assert.Empty(t, repo.created)
}

func TestUpdate_RequiresID(t *testing.T) {
	svc, _, _, _ := fixture()
	_, err := svc.Update(context.Background(), "", dto.CustomerInput{Name: "Dewi", Phone: "81234567"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	c, err := svc.Update(context.Background(), "c1", dto.CustomerInput{Name: "Dewi", Phone: "81234567"})
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)
}

// ── Borrado con deshacer ───────────────────────────────────────────────────

func TestDeleteUndo_SingleWindowPerList(t *testing.T) {
	svc, repo, _, clk := fixture()
	sess := testSession()
	ctx := context.Background()

	p1, err := svc.Delete(ctx, sess, "c1", "Ayu")
	require.NoError(t, err)
	p2, err := svc.Delete(ctx, sess, "c2", "Budi")
	require.NoError(t, err)
	assert.Equal(t, 1, clk.Pending(), "la segunda ventana reemplaza a la primera")

	_, err = svc.Undo(ctx, sess, p1.Token)
	assert.ErrorIs(t, err, domain.ErrNoUndoPending)

	got, err := svc.Undo(ctx, sess, p2.Token)
	require.NoError(t, err)
	assert.Equal(t, "c2", got.ItemID)
	assert.Equal(t, []string{"c2"}, repo.restored)

	_, err = svc.Delete(ctx, sess, "c3", "Citra")
	require.NoError(t, err)
	clk.Advance(5 * time.Second)
	pending, err := svc.PendingUndo(sess)
	require.NoError(t, err)
	assert.Nil(t, pending)
	_, err = svc.Undo(ctx, sess, "")
	assert.ErrorIs(t, err, domain.ErrNoUndoPending)
	assert.Equal(t, []string{"c1", "c2", "c3"}, repo.deleted)
}

func TestDelete_ClosedSession(t *testing.T) {
	svc, repo, _, _ := fixture()
	sess := testSession()
	sess.Close()
	_, err := svc.Delete(context.Background(), sess, "c1", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, repo.deleted)
}

func TestExport_UsesFilteredPage(t *testing.T) {
	svc, _, exp, _ := fixture()
	out, err := svc.Export(context.Background(), dto.CustomerListRequest{Segment: entity.SegmentInactive})
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), out)
	require.Len(t, exp.got, 1)
	assert.Equal(t, "c3", exp.got[0].ID)
}
