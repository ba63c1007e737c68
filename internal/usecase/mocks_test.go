//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"github.com/ledvelvet/doorcheck/internal/domain"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
)

// ---- Mock EventRepo ----

type MockEventRepo struct {
	mu   sync.RWMutex
	data map[string]*model.Event

	FindByIDFunc  func(ctx context.Context, tx repository.Tx, id string) (*model.Event, error)
	FindByRefFunc func(ctx context.Context, tx repository.Tx, ref string) (*model.Event, error)
}

func NewMockEventRepo() *MockEventRepo {
	return &MockEventRepo{data: make(map[string]*model.Event)}
}

var _ repository.EventRepository = (*MockEventRepo)(nil)

func (m *MockEventRepo) Save(ctx context.Context, tx repository.Tx, e *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.data[e.ID] = &cp
	return nil
}

func (m *MockEventRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Event, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *MockEventRepo) FindByRef(ctx context.Context, tx repository.Tx, ref string) (*model.Event, error) {
	if m.FindByRefFunc != nil {
		return m.FindByRefFunc(ctx, tx, ref)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.data {
		if e.Ref == ref && ref != "" {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockEventRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Event, 0, len(m.data))
	for _, e := range m.data {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockEventRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.data, id)
	return nil
}

// ---- Mock MemberRepo ----

type MockMemberRepo struct {
	mu   sync.RWMutex
	data map[string]*model.Member

	FindByIDFunc      func(ctx context.Context, tx repository.Tx, id string) (*model.Member, error)
	FindByBarcodeFunc func(ctx context.Context, tx repository.Tx, barcode string) (*model.Member, error)
}

func NewMockMemberRepo() *MockMemberRepo {
	return &MockMemberRepo{data: make(map[string]*model.Member)}
}

var _ repository.MemberRepository = (*MockMemberRepo)(nil)

func (m *MockMemberRepo) Save(ctx context.Context, tx repository.Tx, mem *model.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *mem
	m.data[mem.ID] = &cp
	return nil
}

func (m *MockMemberRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Member, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	mem, ok := m.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *mem
	return &cp, nil
}

func (m *MockMemberRepo) FindByBarcode(ctx context.Context, tx repository.Tx, barcode string) (*model.Member, error) {
	if m.FindByBarcodeFunc != nil {
		return m.FindByBarcodeFunc(ctx, tx, barcode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mem := range m.data {
		if mem.LegacyBarcode == barcode && barcode != "" {
			cp := *mem
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockMemberRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Member, 0, len(m.data))
	for _, mem := range m.data {
		cp := *mem
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockMemberRepo) CountMembers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data), nil
}

func (m *MockMemberRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.data, id)
	return nil
}

// ---- Mock MemberCardRepo ----

type MockMemberCardRepo struct {
	mu   sync.RWMutex
	data map[string]*model.MemberCard

	FindByTokenFunc func(ctx context.Context, tx repository.Tx, token string) (*model.MemberCard, error)
}

func NewMockMemberCardRepo() *MockMemberCardRepo {
	return &MockMemberCardRepo{data: make(map[string]*model.MemberCard)}
}

var _ repository.MemberCardRepository = (*MockMemberCardRepo)(nil)

func (m *MockMemberCardRepo) Save(ctx context.Context, tx repository.Tx, c *model.MemberCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.data[c.ID] = &cp
	return nil
}

func (m *MockMemberCardRepo) FindByToken(ctx context.Context, tx repository.Tx, token string) (*model.MemberCard, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, tx, token)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.data {
		if c.Token == token && token != "" {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockMemberCardRepo) ListByMember(ctx context.Context, tx repository.Tx, memberID string) ([]*model.MemberCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.MemberCard
	for _, c := range m.data {
		if c.MemberID == memberID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockMemberCardRepo) Revoke(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Revoked = true
	return nil
}

// ---- Mock MembershipRepo ----

type MockMembershipRepo struct {
	mu   sync.RWMutex
	data map[string]*model.Membership

	HasActiveOnFunc  func(ctx context.Context, tx repository.Tx, memberID string, day time.Time) (bool, error)
	ExpireLapsedFunc func(ctx context.Context, tx repository.Tx, day time.Time) (int, error)
}

func NewMockMembershipRepo() *MockMembershipRepo {
	return &MockMembershipRepo{data: make(map[string]*model.Membership)}
}

var _ repository.MembershipRepository = (*MockMembershipRepo)(nil)

func (m *MockMembershipRepo) Save(ctx context.Context, tx repository.Tx, sub *model.Membership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.data[sub.ID] = &cp
	return nil
}

func (m *MockMembershipRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (m *MockMembershipRepo) ListByMember(ctx context.Context, tx repository.Tx, memberID string) ([]*model.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Membership
	for _, sub := range m.data {
		if sub.MemberID == memberID {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockMembershipRepo) HasActiveOn(ctx context.Context, tx repository.Tx, memberID string, day time.Time) (bool, error) {
	if m.HasActiveOnFunc != nil {
		return m.HasActiveOnFunc(ctx, tx, memberID, day)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.data {
		if sub.MemberID == memberID && sub.CoversDay(day) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockMembershipRepo) ExpireLapsed(ctx context.Context, tx repository.Tx, day time.Time) (int, error) {
	if m.ExpireLapsedFunc != nil {
		return m.ExpireLapsedFunc(ctx, tx, day)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, sub := range m.data {
		if sub.Status == model.MembershipStatusActive && sub.EndDate != nil && sub.EndDate.Before(day) {
			sub.Status = model.MembershipStatusExpired
			n++
		}
	}
	return n, nil
}

func (m *MockMembershipRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.MembershipStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[model.MembershipStatus]int)
	for _, sub := range m.data {
		out[sub.Status]++
	}
	return out, nil
}

// ---- Mock CheckinRepo ----

type MockCheckinRepo struct {
	mu   sync.RWMutex
	rows []*model.Checkin

	AppendFunc     func(ctx context.Context, tx repository.Tx, c *model.Checkin) error
	HasAllowedFunc func(ctx context.Context, tx repository.Tx, eventID, memberID string) (bool, error)
	LockCalls      int
}

func NewMockCheckinRepo() *MockCheckinRepo {
	return &MockCheckinRepo{}
}

var _ repository.CheckinRepository = (*MockCheckinRepo)(nil)

func (m *MockCheckinRepo) Append(ctx context.Context, tx repository.Tx, c *model.Checkin) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.Result == model.CheckinAllowed && c.MemberID != nil {
		for _, row := range m.rows {
			if row.Result == model.CheckinAllowed && row.EventID == c.EventID &&
				row.MemberID != nil && *row.MemberID == *c.MemberID {
				return domain.ErrDuplicateAdmission
			}
		}
	}
	cp := *c
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *MockCheckinRepo) Lock(ctx context.Context, tx repository.Tx, eventID, memberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LockCalls++
	return nil
}

func (m *MockCheckinRepo) HasAllowed(ctx context.Context, tx repository.Tx, eventID, memberID string) (bool, error) {
	if m.HasAllowedFunc != nil {
		return m.HasAllowedFunc(ctx, tx, eventID, memberID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, row := range m.rows {
		if row.Result == model.CheckinAllowed && row.EventID == eventID &&
			row.MemberID != nil && *row.MemberID == memberID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCheckinRepo) ListByEvent(ctx context.Context, tx repository.Tx, eventID string, offset, limit int) ([]*model.Checkin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Checkin
	for _, row := range m.rows {
		if row.EventID == eventID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockCheckinRepo) CountByEventResult(ctx context.Context, tx repository.Tx, eventID string) (map[model.CheckinResult]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[model.CheckinResult]int)
	for _, row := range m.rows {
		if row.EventID == eventID {
			out[row.Result]++
		}
	}
	return out, nil
}

func (m *MockCheckinRepo) CountByResult(ctx context.Context, tx repository.Tx) (map[model.CheckinResult]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[model.CheckinResult]int)
	for _, row := range m.rows {
		out[row.Result]++
	}
	return out, nil
}

// Rows returns a snapshot of the audit log for assertions.
func (m *MockCheckinRepo) Rows() []*model.Checkin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Checkin, 0, len(m.rows))
	for _, row := range m.rows {
		cp := *row
		out = append(out, &cp)
	}
	return out
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs the function immediately without a real transaction unless a
// test assigns WithTxFunc.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
