package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/events"
	"github.com/spec-kit/store-admin/internal/paykeeper"
	"github.com/spec-kit/store-admin/internal/repository"
)

type memAdmins struct {
	mu      sync.Mutex
	byID    map[string]*domain.Admin
	byEmail map[string]string
}

func newMemAdmins() *memAdmins {
	return &memAdmins{byID: map[string]*domain.Admin{}, byEmail: map[string]string{}}
}

func (m *memAdmins) Create(_ context.Context, a *domain.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[a.Email]; ok {
		return repository.ErrDuplicate
	}
	a.ID = uuid.NewString()
	cp := *a
	m.byID[a.ID] = &cp
	m.byEmail[a.Email] = a.ID
	return nil
}

func (m *memAdmins) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (m *memAdmins) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	m.mu.Lock()
	id, ok := m.byEmail[email]
	m.mu.Unlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

func (m *memAdmins) UpdatePassword(_ context.Context, id, hash string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	a.PasswordHash = hash
	a.TokenVersion++
	return a.TokenVersion, nil
}

func (m *memAdmins) IncrementTokenVersion(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	a.TokenVersion++
	return a.TokenVersion, nil
}

type memOrders struct {
	mu       sync.Mutex
	byID     map[string]*domain.Order
	markPaid int
}

func newMemOrders(orders ...*domain.Order) *memOrders {
	m := &memOrders{byID: map[string]*domain.Order{}}
	for _, o := range orders {
		m.byID[o.ID] = o
	}
	return m
}

func (m *memOrders) Create(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = uuid.NewString()
	for i := range o.Items {
		o.Items[i].ID = uuid.NewString()
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	m.byID[o.ID] = &cp
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (m *memOrders) ListByStore(_ context.Context, storeID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.byID {
		if o.StoreID == storeID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) Delete(_ context.Context, storeID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok || o.StoreID != storeID {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func (m *memOrders) MarkPaid(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markPaid++
	o, ok := m.byID[id]
	if !ok || o.IsPaid {
		return false, nil
	}
	o.IsPaid = true
	return true, nil
}

func (m *memOrders) isPaid(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].IsPaid
}

type memGiftCodes struct {
	mu        sync.Mutex
	codes     map[string]*domain.GiftCode
	purchases map[string]string
	// items maps order item ids to the store of their order.
	items map[string]string
	// failCreate, when set, is returned by CreateWithPurchase.
	failCreate error
}

func newMemGiftCodes() *memGiftCodes {
	return &memGiftCodes{
		codes:     map[string]*domain.GiftCode{},
		purchases: map[string]string{},
		items:     map[string]string{},
	}
}

func (m *memGiftCodes) withItems(storeID string, itemIDs ...string) *memGiftCodes {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range itemIDs {
		m.items[id] = storeID
	}
	return m
}

func (m *memGiftCodes) withOrder(o *domain.Order) *memGiftCodes {
	for _, it := range o.Items {
		m.withItems(o.StoreID, it.ID)
	}
	return m
}

func (m *memGiftCodes) OrderItemStore(_ context.Context, orderItemID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	storeID, ok := m.items[orderItemID]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return storeID, nil
}

func (m *memGiftCodes) CreateWithPurchase(_ context.Context, code *domain.GiftCode, purchase *domain.GiftCodePurchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	for _, existing := range m.codes {
		if existing.Code == code.Code {
			return repository.ErrCodeTaken
		}
	}
	if _, ok := m.purchases[purchase.OrderItemID]; ok {
		return repository.ErrPurchaseExists
	}
	code.ID = uuid.NewString()
	purchase.ID = uuid.NewString()
	purchase.GiftCodeID = code.ID
	cp := *code
	m.codes[code.ID] = &cp
	m.purchases[purchase.OrderItemID] = code.ID
	return nil
}

func (m *memGiftCodes) GetByOrderItem(_ context.Context, storeID, orderItemID string) (*domain.GiftCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.purchases[orderItemID]
	if !ok || m.codes[id].StoreID != storeID {
		return nil, pgx.ErrNoRows
	}
	cp := *m.codes[id]
	return &cp, nil
}

func (m *memGiftCodes) ListByStore(_ context.Context, storeID string) ([]domain.GiftCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.GiftCode
	for _, c := range m.codes {
		if c.StoreID == storeID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memGiftCodes) Delete(_ context.Context, storeID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[id]
	if !ok || c.StoreID != storeID {
		return pgx.ErrNoRows
	}
	delete(m.codes, id)
	for item, codeID := range m.purchases {
		if codeID == id {
			delete(m.purchases, item)
		}
	}
	return nil
}

func (m *memGiftCodes) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.codes)
}

type memProducts struct {
	byID map[string]*domain.Product
}

func newMemProducts(products ...*domain.Product) *memProducts {
	m := &memProducts{byID: map[string]*domain.Product{}}
	for _, p := range products {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memProducts) Create(_ context.Context, p *domain.Product) error {
	p.ID = uuid.NewString()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProducts) Update(_ context.Context, p *domain.Product) error {
	existing, ok := m.byID[p.ID]
	if !ok || existing.StoreID != p.StoreID {
		return pgx.ErrNoRows
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProducts) Delete(_ context.Context, storeID, id string) error {
	p, ok := m.byID[id]
	if !ok || p.StoreID != storeID {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func (m *memProducts) GetByID(_ context.Context, storeID, id string) (*domain.Product, error) {
	p, ok := m.byID[id]
	if !ok || p.StoreID != storeID {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) GetMany(_ context.Context, storeID string, ids []string) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok && p.StoreID == storeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.byID {
		if p.StoreID == filter.StoreID && (filter.IncludeArchived || !p.IsArchived) {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memCategories struct {
	byID map[string]*domain.Category
}

func (m *memCategories) Create(_ context.Context, c *domain.Category) error {
	c.ID = uuid.NewString()
	m.byID[c.ID] = c
	return nil
}

func (m *memCategories) Update(_ context.Context, c *domain.Category) error {
	if _, ok := m.byID[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.byID[c.ID] = c
	return nil
}

func (m *memCategories) Delete(_ context.Context, _, id string) error {
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func (m *memCategories) GetByID(_ context.Context, storeID, id string) (*domain.Category, error) {
	c, ok := m.byID[id]
	if !ok || c.StoreID != storeID {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (m *memCategories) ListByStore(context.Context, string) ([]domain.Category, error) {
	return nil, nil
}

type stubGateway struct {
	mu    sync.Mutex
	info  *paykeeper.PaymentInfo
	err   error
	calls int
}

func (g *stubGateway) PaymentInfo(context.Context, string) (*paykeeper.PaymentInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.info, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, ev events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event(nil), d.events...)
}
