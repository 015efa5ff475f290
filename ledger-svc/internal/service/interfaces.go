package service

import (
	"context"

	"overcooked-pos/ledger-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// LedgerStore is the transactional relational store holding every ledger entity.
type LedgerStore interface {
	// WithinTx runs fn as one atomic unit. The unit commits only if fn returns
	// nil; any error rolls back every write fn made.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error

	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	GetAccount(ctx context.Context, accountID int64) (*domain.BankAccount, error)
}

// LedgerTx is the set of reads and writes available inside an atomic unit.
type LedgerTx interface {
	InsertOrder(ctx context.Context, order *domain.Order) error
	GetMenuItem(ctx context.Context, menuItemID int64) (*domain.MenuItem, error)
	InsertOrderItem(ctx context.Context, item *domain.OrderItem) error
	SumOrderItems(ctx context.Context, orderID int64) (decimal.Decimal, error)
	UpdateOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error

	// LockOrder reads the order row and holds a row lock until the unit ends.
	LockOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	// LockAccount reads the account row and holds a row lock until the unit ends.
	LockAccount(ctx context.Context, accountID int64) (*domain.BankAccount, error)
	InsertPayment(ctx context.Context, payment *domain.Payment) error
	AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal) error
	MarkOrderPaid(ctx context.Context, orderID int64) error
}

type MenuCache interface {
	GetMenu(ctx context.Context) ([]domain.MenuItem, bool, error)
	SetMenu(ctx context.Context, items []domain.MenuItem) error
}

// PaymentMarker remembers orders that are known to be paid.
type PaymentMarker interface {
	IsPaid(ctx context.Context, orderID int64) (bool, error)
	MarkPaid(ctx context.Context, orderID int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
}

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Order, error)
	Get(ctx context.Context, orderID int64) (*domain.Order, error)
}

type PaymentServiceInterface interface {
	ProcessPayment(ctx context.Context, req domain.ProcessPaymentRequest) (*domain.PaymentConfirmation, error)
}

type CustomerServiceInterface interface {
	Register(ctx context.Context, customer *domain.Customer) error
}

type MenuServiceInterface interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
}

type AccountServiceInterface interface {
	Get(ctx context.Context, accountID int64) (*domain.BankAccount, error)
}

type ReceiptServiceInterface interface {
	QRCode(ctx context.Context, orderID int64) ([]byte, error)
}

var (
	_ OrderServiceInterface    = (*OrderService)(nil)
	_ PaymentServiceInterface  = (*PaymentService)(nil)
	_ CustomerServiceInterface = (*CustomerService)(nil)
	_ MenuServiceInterface     = (*MenuService)(nil)
	_ AccountServiceInterface  = (*AccountService)(nil)
	_ ReceiptServiceInterface  = (*ReceiptService)(nil)
)
