//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"alcocontrol/internal/domain"
	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// =============================
// Transaction manager
// =============================

// MockTxManager runs the callback inline without a real transaction.
type MockTxManager struct {
	Calls int
	// WithTxFunc lets a test inject failures.
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.Calls++
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// =============================
// Repositories (in-memory)
// =============================

type MockUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User // by ID

	SaveFunc func(ctx context.Context, qx any, u *model.User) error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*model.User)}
}

func (m *MockUserRepo) Save(ctx context.Context, qx any, u *model.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, qx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, qx any, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByTelegramID(ctx context.Context, qx any, tgID int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.TelegramID == tgID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) List(ctx context.Context, qx any, offset, limit int) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.User, 0, len(m.store))
	for _, u := range m.store {
		cp := *u
		out = append(out, &cp)
	}
	return page(out, offset, limit), nil
}

func (m *MockUserRepo) CountUsers(ctx context.Context, qx any) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

func (m *MockUserRepo) UpdateSettings(ctx context.Context, qx any, id string, settings map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Settings = settings
	return nil
}

type MockDrinkRepo struct {
	mu     sync.RWMutex
	drinks []*model.Drink

	SaveFunc func(ctx context.Context, qx any, d *model.Drink) error
}

var _ repository.DrinkRepository = (*MockDrinkRepo)(nil)

func NewMockDrinkRepo() *MockDrinkRepo { return &MockDrinkRepo{} }

func (m *MockDrinkRepo) Save(ctx context.Context, qx any, d *model.Drink) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, qx, d)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.drinks = append(m.drinks, &cp)
	return nil
}

func (m *MockDrinkRepo) FindByID(ctx context.Context, qx any, id string) (*model.Drink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drinks {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockDrinkRepo) List(ctx context.Context, qx any, offset, limit int) ([]*model.Drink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return page(clone(m.drinks), offset, limit), nil
}

func (m *MockDrinkRepo) ListByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.Drink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return page(m.byUser(userID), offset, limit), nil
}

func (m *MockDrinkRepo) ListAllByUser(ctx context.Context, qx any, userID string) ([]*model.Drink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byUser(userID), nil
}

func (m *MockDrinkRepo) CountByUser(ctx context.Context, qx any, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byUser(userID)), nil
}

func (m *MockDrinkRepo) byUser(userID string) []*model.Drink {
	var out []*model.Drink
	for _, d := range m.drinks {
		if d.UserID == userID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out
}

type MockSoberPeriodRepo struct {
	mu      sync.RWMutex
	periods map[string]*model.SoberPeriod // by ID

	SaveFunc             func(ctx context.Context, qx any, p *model.SoberPeriod) error
	FindActiveByUserFunc func(ctx context.Context, qx any, userID string) (*model.SoberPeriod, error)
}

var _ repository.SoberPeriodRepository = (*MockSoberPeriodRepo)(nil)

func NewMockSoberPeriodRepo() *MockSoberPeriodRepo {
	return &MockSoberPeriodRepo{periods: make(map[string]*model.SoberPeriod)}
}

func (m *MockSoberPeriodRepo) Save(ctx context.Context, qx any, p *model.SoberPeriod) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, qx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.periods[p.ID] = &cp
	return nil
}

func (m *MockSoberPeriodRepo) FindByID(ctx context.Context, qx any, id string) (*model.SoberPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.periods[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockSoberPeriodRepo) FindActiveByUser(ctx context.Context, qx any, userID string) (*model.SoberPeriod, error) {
	if m.FindActiveByUserFunc != nil {
		return m.FindActiveByUserFunc(ctx, qx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.periods {
		if p.UserID == userID && p.IsActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSoberPeriodRepo) List(ctx context.Context, qx any, offset, limit int) ([]*model.SoberPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.SoberPeriod, 0, len(m.periods))
	for _, p := range m.periods {
		cp := *p
		out = append(out, &cp)
	}
	return page(out, offset, limit), nil
}

func (m *MockSoberPeriodRepo) ListByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.SoberPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.SoberPeriod
	for _, p := range m.periods {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return page(out, offset, limit), nil
}

type MockGoalRepo struct {
	mu    sync.RWMutex
	goals map[string]*model.Goal // by ID

	SaveFunc func(ctx context.Context, qx any, g *model.Goal) error
}

var _ repository.GoalRepository = (*MockGoalRepo)(nil)

func NewMockGoalRepo() *MockGoalRepo {
	return &MockGoalRepo{goals: make(map[string]*model.Goal)}
}

func (m *MockGoalRepo) Save(ctx context.Context, qx any, g *model.Goal) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, qx, g)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.goals[g.ID] = &cp
	return nil
}

func (m *MockGoalRepo) FindByID(ctx context.Context, qx any, id string) (*model.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.goals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *MockGoalRepo) List(ctx context.Context, qx any, offset, limit int) ([]*model.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Goal, 0, len(m.goals))
	for _, g := range m.goals {
		cp := *g
		out = append(out, &cp)
	}
	return page(out, offset, limit), nil
}

func (m *MockGoalRepo) ListByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Goal
	for _, g := range m.goals {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return page(out, offset, limit), nil
}

func (m *MockGoalRepo) DeactivateExpired(ctx context.Context, qx any, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, g := range m.goals {
		if g.IsActive && g.Expired(now) {
			g.IsActive = false
			n++
		}
	}
	return n, nil
}

// =============================
// Helpers
// =============================

func clone[T any](in []*T) []*T {
	out := make([]*T, len(in))
	for i, v := range in {
		cp := *v
		out[i] = &cp
	}
	return out
}

func page[T any](in []*T, offset, limit int) []*T {
	if offset >= len(in) {
		return nil
	}
	end := offset + limit
	if end > len(in) {
		end = len(in)
	}
	return in[offset:end]
}
