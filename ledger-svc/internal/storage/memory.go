package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"overcooked-pos/ledger-svc/internal/domain"
	"overcooked-pos/ledger-svc/internal/service"

	"github.com/shopspring/decimal"
)

// MemoryStore is an in-process LedgerStore. Units run one at a time against a
// private copy of the state that replaces the live state only on success, so
// it is serializable and a failed unit leaves nothing behind.
type MemoryStore struct {
	mu    sync.Mutex
	state memState

	// FailOn is consulted before every write made inside a unit. A non-nil
	// result aborts the unit with that error.
	FailOn func(op string) error
}

type memState struct {
	customers map[int64]domain.Customer
	menu      map[int64]domain.MenuItem
	orders    map[int64]domain.Order
	items     map[int64][]domain.OrderItem
	payments  map[int64]domain.Payment
	accounts  map[int64]domain.BankAccount
	lastID    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: memState{
		customers: map[int64]domain.Customer{},
		menu:      map[int64]domain.MenuItem{},
		orders:    map[int64]domain.Order{},
		items:     map[int64][]domain.OrderItem{},
		payments:  map[int64]domain.Payment{},
		accounts:  map[int64]domain.BankAccount{},
	}}
}

func (s memState) clone() memState {
	c := memState{
		customers: make(map[int64]domain.Customer, len(s.customers)),
		menu:      make(map[int64]domain.MenuItem, len(s.menu)),
		orders:    make(map[int64]domain.Order, len(s.orders)),
		items:     make(map[int64][]domain.OrderItem, len(s.items)),
		payments:  make(map[int64]domain.Payment, len(s.payments)),
		accounts:  make(map[int64]domain.BankAccount, len(s.accounts)),
		lastID:    s.lastID,
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.menu {
		c.menu[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]domain.OrderItem(nil), v...)
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	return c
}

func (s *memState) nextID() int64 {
	s.lastID++
	return s.lastID
}

// PutMenuItem stores item and returns its id.
func (s *MemoryStore) PutMenuItem(item domain.MenuItem) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == 0 {
		item.ID = s.state.nextID()
	}
	s.state.menu[item.ID] = item
	return item.ID
}

// PutAccount creates or overwrites a bank account.
func (s *MemoryStore) PutAccount(id int64, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.accounts[id] = domain.BankAccount{ID: id, Balance: balance}
	if id > s.state.lastID {
		s.state.lastID = id
	}
}

// Payments returns the committed payments recorded against orderID.
func (s *MemoryStore) Payments(orderID int64) []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Payment
	for _, p := range s.state.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx service.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin: %w: %w", domain.ErrTransient, err)
	}
	draft := s.state.clone()
	if err := fn(ctx, &memTx{st: &draft, failOn: s.FailOn}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit: %w: %w", domain.ErrTransient, err)
	}
	s.state = draft
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, orderID int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.state.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	order.Items = append([]domain.OrderItem(nil), s.state.items[orderID]...)
	return &order, nil
}

func (s *MemoryStore) ListMenuItems(_ context.Context) ([]domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.MenuItem, 0, len(s.state.menu))
	for _, item := range s.state.menu {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemoryStore) CreateCustomer(_ context.Context, customer *domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.state.customers {
		if strings.EqualFold(c.Email, customer.Email) {
			return domain.ErrDuplicateCustomer
		}
	}
	customer.ID = s.state.nextID()
	customer.CreatedAt = time.Now().UTC()
	s.state.customers[customer.ID] = *customer
	return nil
}

func (s *MemoryStore) GetAccount(_ context.Context, accountID int64) (*domain.BankAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.state.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

type memTx struct {
	st     *memState
	failOn func(op string) error
}

func (t *memTx) fail(op string) error {
	if t.failOn == nil {
		return nil
	}
	return t.failOn(op)
}

func (t *memTx) InsertOrder(_ context.Context, order *domain.Order) error {
	if err := t.fail("insert_order"); err != nil {
		return err
	}
	if len(t.st.customers) > 0 {
		if _, ok := t.st.customers[order.CustomerID]; !ok {
			return fmt.Errorf("order for customer %d: %w", order.CustomerID, domain.ErrCustomerNotFound)
		}
	}
	order.ID = t.st.nextID()
	order.OrderDate = time.Now().UTC()
	order.TotalAmount = decimal.Zero
	stored := *order
	stored.Items = nil
	t.st.orders[order.ID] = stored
	return nil
}

func (t *memTx) GetMenuItem(_ context.Context, menuItemID int64) (*domain.MenuItem, error) {
	item, ok := t.st.menu[menuItemID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrMenuItemNotFound, menuItemID)
	}
	return &item, nil
}

func (t *memTx) InsertOrderItem(_ context.Context, item *domain.OrderItem) error {
	if err := t.fail("insert_order_item"); err != nil {
		return err
	}
	item.ID = t.st.nextID()
	t.st.items[item.OrderID] = append(t.st.items[item.OrderID], *item)
	return nil
}

func (t *memTx) SumOrderItems(_ context.Context, orderID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range t.st.items[orderID] {
		total = total.Add(item.LineTotal())
	}
	return total, nil
}

func (t *memTx) UpdateOrderTotal(_ context.Context, orderID int64, total decimal.Decimal) error {
	if err := t.fail("update_order_total"); err != nil {
		return err
	}
	order, ok := t.st.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.TotalAmount = total
	t.st.orders[orderID] = order
	return nil
}

func (t *memTx) LockOrder(_ context.Context, orderID int64) (*domain.Order, error) {
	order, ok := t.st.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

func (t *memTx) LockAccount(_ context.Context, accountID int64) (*domain.BankAccount, error) {
	account, ok := t.st.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrAccountNotFound, accountID)
	}
	return &account, nil
}

func (t *memTx) InsertPayment(_ context.Context, payment *domain.Payment) error {
	if err := t.fail("insert_payment"); err != nil {
		return err
	}
	payment.ID = t.st.nextID()
	payment.PaymentDate = time.Now().UTC()
	t.st.payments[payment.ID] = *payment
	return nil
}

func (t *memTx) AdjustBalance(_ context.Context, accountID int64, delta decimal.Decimal) error {
	if err := t.fail("adjust_balance"); err != nil {
		return err
	}
	account, ok := t.st.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: id %d", domain.ErrAccountNotFound, accountID)
	}
	account.Balance = account.Balance.Add(delta)
	t.st.accounts[accountID] = account
	return nil
}

func (t *memTx) MarkOrderPaid(_ context.Context, orderID int64) error {
	if err := t.fail("mark_order_paid"); err != nil {
		return err
	}
	order, ok := t.st.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.PaymentStatus != domain.StatusUnpaid {
		return domain.ErrOrderAlreadyPaid
	}
	order.PaymentStatus = domain.StatusPaid
	t.st.orders[orderID] = order
	return nil
}

var _ service.LedgerStore = (*MemoryStore)(nil)
