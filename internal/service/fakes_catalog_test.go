package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/store-admin/internal/domain"
)

// scopedRows is an in-memory table whose rows belong to one store each.
type scopedRows[T any] struct {
	mu    sync.Mutex
	rows  map[string]*T
	id    func(*T) *string
	store func(*T) string
}

func newScopedRows[T any](id func(*T) *string, store func(*T) string, seed ...*T) *scopedRows[T] {
	r := &scopedRows[T]{rows: map[string]*T{}, id: id, store: store}
	for _, row := range seed {
		r.rows[*id(row)] = row
	}
	return r
}

func (r *scopedRows[T]) create(row *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.id(row) = uuid.NewString()
	cp := *row
	r.rows[*r.id(row)] = &cp
	return nil
}

func (r *scopedRows[T]) update(row *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rows[*r.id(row)]
	if !ok || r.store(existing) != r.store(row) {
		return pgx.ErrNoRows
	}
	cp := *row
	r.rows[*r.id(row)] = &cp
	return nil
}

func (r *scopedRows[T]) get(storeID, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || (storeID != "" && r.store(row) != storeID) {
		return nil, pgx.ErrNoRows
	}
	cp := *row
	return &cp, nil
}

func (r *scopedRows[T]) delete(storeID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || (storeID != "" && r.store(row) != storeID) {
		return pgx.ErrNoRows
	}
	delete(r.rows, id)
	return nil
}

func (r *scopedRows[T]) list(storeID string) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []T
	for _, row := range r.rows {
		if r.store(row) == storeID {
			out = append(out, *row)
		}
	}
	return out
}

type memCustomers struct {
	*scopedRows[domain.Customer]
}

func newMemCustomers(seed ...*domain.Customer) *memCustomers {
	return &memCustomers{newScopedRows(
		func(c *domain.Customer) *string { return &c.ID },
		func(c *domain.Customer) string { return c.StoreID },
		seed...,
	)}
}

func (m *memCustomers) Create(_ context.Context, c *domain.Customer) error { return m.create(c) }
func (m *memCustomers) Update(_ context.Context, c *domain.Customer) error { return m.update(c) }
func (m *memCustomers) Delete(_ context.Context, storeID, id string) error { return m.delete(storeID, id) }

func (m *memCustomers) GetByID(_ context.Context, storeID, id string) (*domain.Customer, error) {
	return m.get(storeID, id)
}

func (m *memCustomers) ListByStore(_ context.Context, storeID string) ([]domain.Customer, error) {
	return m.list(storeID), nil
}

func (m *memCustomers) AdjustBalance(_ context.Context, storeID, id string, delta int64) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok || c.StoreID != storeID {
		return nil, pgx.ErrNoRows
	}
	c.Balance += delta
	cp := *c
	return &cp, nil
}

type memStores struct {
	*scopedRows[domain.Store]
}

func newMemStores(seed ...*domain.Store) *memStores {
	return &memStores{newScopedRows(
		func(s *domain.Store) *string { return &s.ID },
		func(s *domain.Store) string { return s.OwnerID },
		seed...,
	)}
}

func (m *memStores) Create(_ context.Context, s *domain.Store) error { return m.create(s) }
func (m *memStores) Update(_ context.Context, s *domain.Store) error { return m.update(s) }
func (m *memStores) Delete(_ context.Context, id string) error       { return m.delete("", id) }

func (m *memStores) GetByID(_ context.Context, id string) (*domain.Store, error) {
	return m.get("", id)
}

func (m *memStores) ListByOwner(_ context.Context, ownerID string) ([]domain.Store, error) {
	return m.list(ownerID), nil
}

type memBillboards struct {
	*scopedRows[domain.Billboard]
}

func newMemBillboards(seed ...*domain.Billboard) *memBillboards {
	return &memBillboards{newScopedRows(
		func(b *domain.Billboard) *string { return &b.ID },
		func(b *domain.Billboard) string { return b.StoreID },
		seed...,
	)}
}

func (m *memBillboards) Create(_ context.Context, b *domain.Billboard) error { return m.create(b) }
func (m *memBillboards) Update(_ context.Context, b *domain.Billboard) error { return m.update(b) }
func (m *memBillboards) Delete(_ context.Context, storeID, id string) error  { return m.delete(storeID, id) }

func (m *memBillboards) GetByID(_ context.Context, storeID, id string) (*domain.Billboard, error) {
	return m.get(storeID, id)
}

func (m *memBillboards) ListByStore(_ context.Context, storeID string) ([]domain.Billboard, error) {
	return m.list(storeID), nil
}

type memReviews struct {
	*scopedRows[domain.Review]
}

func newMemReviews() *memReviews {
	return &memReviews{newScopedRows(
		func(r *domain.Review) *string { return &r.ID },
		func(r *domain.Review) string { return r.StoreID },
	)}
}

func (m *memReviews) Create(_ context.Context, r *domain.Review) error { return m.create(r) }
func (m *memReviews) Update(_ context.Context, r *domain.Review) error { return m.update(r) }
func (m *memReviews) Delete(_ context.Context, storeID, id string) error {
	return m.delete(storeID, id)
}

func (m *memReviews) GetByID(_ context.Context, storeID, id string) (*domain.Review, error) {
	return m.get(storeID, id)
}

func (m *memReviews) ListByStore(_ context.Context, storeID string) ([]domain.Review, error) {
	return m.list(storeID), nil
}

type memAttributes struct {
	*scopedRows[domain.Attribute]
	kind domain.AttributeKind
}

func newMemAttributes(kind domain.AttributeKind) *memAttributes {
	return &memAttributes{
		scopedRows: newScopedRows(
			func(a *domain.Attribute) *string { return &a.ID },
			func(a *domain.Attribute) string { return a.StoreID },
		),
		kind: kind,
	}
}

func (m *memAttributes) Kind() domain.AttributeKind                          { return m.kind }
func (m *memAttributes) Create(_ context.Context, a *domain.Attribute) error { return m.create(a) }
func (m *memAttributes) Update(_ context.Context, a *domain.Attribute) error { return m.update(a) }
func (m *memAttributes) Delete(_ context.Context, storeID, id string) error  { return m.delete(storeID, id) }

func (m *memAttributes) GetByID(_ context.Context, storeID, id string) (*domain.Attribute, error) {
	return m.get(storeID, id)
}

func (m *memAttributes) ListByStore(_ context.Context, storeID string) ([]domain.Attribute, error) {
	return m.list(storeID), nil
}
