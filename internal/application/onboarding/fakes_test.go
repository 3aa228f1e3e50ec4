package onboarding_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/clinic-console/internal/application/onboarding"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/jhoicas/clinic-console/internal/infrastructure/memstore"
)

var errBackend = errors.New("backend caído")

type fakeOutlets struct {
	mu      sync.Mutex
	items   []entity.Outlet
	creates int
	err     error
	block   chan struct{} // si no es nil, Create espera a que se cierre
	entered chan struct{}
}

func (f *fakeOutlets) List(context.Context) ([]entity.Outlet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Outlet(nil), f.items...), nil
}

func (f *fakeOutlets) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items), nil
}

func (f *fakeOutlets) Create(_ context.Context, o *entity.Outlet) (*entity.Outlet, error) {
	if f.block != nil {
		if f.entered != nil {
			close(f.entered)
		}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.err != nil {
		return nil, f.err
	}
	out := *o
	out.ID = fmt.Sprintf("outlet-%d", len(f.items)+1)
	f.items = append(f.items, out)
	return &out, nil
}

type fakeUsers struct{ n int }

func (f *fakeUsers) Count(context.Context) (int, error) { return f.n, nil }

type fakeServices struct {
	items   []entity.Service
	creates int
}

func (f *fakeServices) List(context.Context, repository.ServiceQuery) (*repository.ServicePage, error) {
	return &repository.ServicePage{Items: f.items, Total: len(f.items), Pages: 1}, nil
}
func (f *fakeServices) Get(_ context.Context, id string) (*entity.Service, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, errors.New("no encontrado")
}
func (f *fakeServices) Count(context.Context) (int, error) { return len(f.items), nil }
func (f *fakeServices) Create(_ context.Context, s *entity.Service) (*entity.Service, error) {
	f.creates++
	out := *s
	out.ID = fmt.Sprintf("svc-%d", len(f.items)+1)
	f.items = append(f.items, out)
	return &out, nil
}
func (f *fakeServices) Update(_ context.Context, s *entity.Service) (*entity.Service, error) {
	return s, nil
}
func (f *fakeServices) Delete(context.Context, string) error  { return nil }
func (f *fakeServices) Restore(context.Context, string) error { return nil }
func (f *fakeServices) CategoryTemplates(context.Context) ([]entity.CategoryTemplate, error) {
	return []entity.CategoryTemplate{{Key: "facial", Name: "Facial"}}, nil
}

type fakeStaff struct {
	items   []entity.Staff
	creates int
}

func (f *fakeStaff) List(context.Context) ([]entity.Staff, error) { return f.items, nil }
func (f *fakeStaff) Count(context.Context) (int, error)           { return len(f.items), nil }
func (f *fakeStaff) Create(_ context.Context, s *entity.Staff) (*entity.Staff, error) {
	f.creates++
	out := *s
	out.ID = fmt.Sprintf("staff-%d", len(f.items)+1)
	f.items = append(f.items, out)
	return &out, nil
}
func (f *fakeStaff) PositionTemplates(context.Context) ([]entity.PositionTemplate, error) {
	return []entity.PositionTemplate{{Key: "therapist", Name: "Terapeuta"}}, nil
}

type fakeAvailability struct {
	items []entity.Availability
	err   error
}

func (f *fakeAvailability) CreateWeekly(_ context.Context, a *entity.Availability) (*entity.Availability, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := *a
	out.ID = fmt.Sprintf("av-%d", len(f.items)+1)
	f.items = append(f.items, out)
	return &out, nil
}
func (f *fakeAvailability) Grid(context.Context, repository.GridQuery) (entity.AvailabilityGrid, error) {
	return entity.AvailabilityGrid{}, nil
}
func (f *fakeAvailability) Check(context.Context, repository.CheckQuery) (*entity.AvailabilityCheck, error) {
	return &entity.AvailabilityCheck{Available: true}, nil
}

type fakeTenants struct {
	usage     *entity.PlanUsage
	usageErr  error
	flag      entity.OnboardingFlag
	flagErr   error
	marks     int
	markErr   error
	usageHits int
}

func (f *fakeTenants) Current(context.Context) (*entity.Tenant, error) {
	return &entity.Tenant{ID: "t1"}, nil
}
func (f *fakeTenants) Usage(context.Context) (*entity.PlanUsage, error) {
	f.usageHits++
	if f.usageErr != nil {
		return nil, f.usageErr
	}
	if f.usage == nil {
		return &entity.PlanUsage{}, nil
	}
	u := *f.usage
	return &u, nil
}
func (f *fakeTenants) OnboardingFlag(context.Context) (*entity.OnboardingFlag, error) {
	if f.flagErr != nil {
		return nil, f.flagErr
	}
	fl := f.flag
	return &fl, nil
}
func (f *fakeTenants) MarkOnboardingCompleted(context.Context) error {
	f.marks++
	return f.markErr
}
func (f *fakeTenants) Register(context.Context, entity.Registration) (*entity.RegistrationResult, error) {
	return nil, errors.New("no usado")
}

type fixture struct {
	outlets      *fakeOutlets
	users        *fakeUsers
	services     *fakeServices
	staff        *fakeStaff
	availability *fakeAvailability
	tenants      *fakeTenants
	store        *flakyStore
}

func newFixture() *fixture {
	return &fixture{
		outlets:      &fakeOutlets{},
		users:        &fakeUsers{},
		services:     &fakeServices{},
		staff:        &fakeStaff{},
		availability: &fakeAvailability{},
		tenants:      &fakeTenants{},
		store:        &flakyStore{Store: memstore.New()},
	}
}

func (f *fixture) repos() onboarding.Repositories {
	return onboarding.Repositories{
		Outlets:      f.outlets,
		Users:        f.users,
		Services:     f.services,
		Staff:        f.staff,
		Availability: f.availability,
		Tenants:      f.tenants,
	}
}

// flakyStore memstore con fallos inyectables de escritura y borrado.
type flakyStore struct {
	*memstore.Store
	putErr    error
	deleteErr error
	puts      int
}

func (s *flakyStore) Put(ctx context.Context, key string, v any) error {
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	return s.Store.Put(ctx, key, v)
}

func (s *flakyStore) Delete(ctx context.Context, keys ...string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.Store.Delete(ctx, keys...)
}
