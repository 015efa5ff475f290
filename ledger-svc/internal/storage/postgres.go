package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net"

	"overcooked-pos/ledger-svc/internal/domain"
	"overcooked-pos/ledger-svc/internal/service"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// WithinTx runs fn in a READ COMMITTED transaction. Row locks taken with
// SELECT ... FOR UPDATE are held until commit or rollback.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx service.LedgerTx) error) error {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return classify(err, "begin")
	}
	defer tx.Rollback()

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify(err, "commit")
	}
	return nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order domain.Order
	if err := s.DB.QueryRowContext(ctx, `
		SELECT order_id, customer_id, restaurant_id, COALESCE(total_amount, 0), payment_status, order_date
		FROM orders WHERE order_id = $1
	`, orderID).Scan(&order.ID, &order.CustomerID, &order.RestaurantID, &order.TotalAmount, &order.PaymentStatus, &order.OrderDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, classify(err, "get order")
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT oi.order_item_id, oi.order_id, oi.menu_item_id, mi.name, oi.quantity, oi.price
		FROM order_item oi
		JOIN menu_item mi ON oi.menu_item_id = mi.menu_item_id
		WHERE oi.order_id = $1
		ORDER BY oi.order_item_id
	`, orderID)
	if err != nil {
		return nil, classify(err, "list order items")
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, classify(err, "scan order item")
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list order items")
	}
	return &order, nil
}

func (s *PostgresStore) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT menu_item_id, name, price, COALESCE(category, ''), COALESCE(description, '')
		FROM menu_item
		ORDER BY menu_item_id`)
	if err != nil {
		return nil, classify(err, "list menu")
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.Description); err != nil {
			return nil, classify(err, "scan menu item")
		}
		items = append(items, item)
	}
	return items, classify(rows.Err(), "list menu")
}

func (s *PostgresStore) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO customer (first_name, last_name, email, phone, loyalty_card_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING customer_id`,
		customer.FirstName, customer.LastName, customer.Email, customer.Phone, customer.LoyaltyCardNumber,
	).Scan(&customer.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateCustomer
	}
	return classify(err, "create customer")
}

func (s *PostgresStore) GetAccount(ctx context.Context, accountID int64) (*domain.BankAccount, error) {
	var account domain.BankAccount
	err := s.DB.QueryRowContext(ctx,
		"SELECT bank_account_id, balance FROM bank_account WHERE bank_account_id = $1", accountID).
		Scan(&account.ID, &account.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, classify(err, "get account")
	}
	return &account, nil
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) InsertOrder(ctx context.Context, order *domain.Order) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, restaurant_id, payment_status, total_amount)
		VALUES ($1, $2, $3, 0)
		RETURNING order_id, order_date`,
		order.CustomerID, order.RestaurantID, string(order.PaymentStatus),
	).Scan(&order.ID, &order.OrderDate)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("order for customer %d: %w", order.CustomerID, domain.ErrCustomerNotFound)
	}
	return classify(err, "insert order")
}

func (t *pgTx) GetMenuItem(ctx context.Context, menuItemID int64) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := t.tx.QueryRowContext(ctx, `
		SELECT menu_item_id, name, price, COALESCE(category, ''), COALESCE(description, '')
		FROM menu_item WHERE menu_item_id = $1`, menuItemID).
		Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrMenuItemNotFound, menuItemID)
	}
	if err != nil {
		return nil, classify(err, "get menu item")
	}
	return &item, nil
}

func (t *pgTx) InsertOrderItem(ctx context.Context, item *domain.OrderItem) error {
	return classify(t.tx.QueryRowContext(ctx, `
		INSERT INTO order_item (order_id, menu_item_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING order_item_id`,
		item.OrderID, item.MenuItemID, item.Quantity, item.Price,
	).Scan(&item.ID), "insert order item")
}

func (t *pgTx) SumOrderItems(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := t.tx.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(quantity * price), 0) FROM order_item WHERE order_id = $1", orderID).
		Scan(&total)
	if err != nil {
		return decimal.Zero, classify(err, "sum order items")
	}
	return total, nil
}

func (t *pgTx) UpdateOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	_, err := t.tx.ExecContext(ctx, "UPDATE orders SET total_amount = $1 WHERE order_id = $2", total, orderID)
	return classify(err, "update order total")
}

func (t *pgTx) LockOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order domain.Order
	err := t.tx.QueryRowContext(ctx, `
		SELECT order_id, customer_id, restaurant_id, COALESCE(total_amount, 0), payment_status, order_date
		FROM orders WHERE order_id = $1
		FOR UPDATE`, orderID).
		Scan(&order.ID, &order.CustomerID, &order.RestaurantID, &order.TotalAmount, &order.PaymentStatus, &order.OrderDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, classify(err, "lock order")
	}
	return &order, nil
}

func (t *pgTx) LockAccount(ctx context.Context, accountID int64) (*domain.BankAccount, error) {
	var account domain.BankAccount
	err := t.tx.QueryRowContext(ctx,
		"SELECT bank_account_id, balance FROM bank_account WHERE bank_account_id = $1 FOR UPDATE", accountID).
		Scan(&account.ID, &account.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrAccountNotFound, accountID)
	}
	if err != nil {
		return nil, classify(err, "lock account")
	}
	return &account, nil
}

func (t *pgTx) InsertPayment(ctx context.Context, payment *domain.Payment) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO payment (order_id, amount, payment_method, card_details_id, bank_account_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING payment_id, payment_date`,
		payment.OrderID, payment.Amount, payment.Method, payment.CardDetailsID, payment.BankAccountID,
	).Scan(&payment.ID, &payment.PaymentDate)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("payment card details: %w", domain.ErrReferenceNotFound)
	}
	return classify(err, "insert payment")
}

func (t *pgTx) AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal) error {
	result, err := t.tx.ExecContext(ctx,
		"UPDATE bank_account SET balance = balance + $1 WHERE bank_account_id = $2", delta, accountID)
	if err != nil {
		return classify(err, "adjust balance")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrAccountNotFound, accountID)
	}
	return nil
}

func (t *pgTx) MarkOrderPaid(ctx context.Context, orderID int64) error {
	result, err := t.tx.ExecContext(ctx,
		"UPDATE orders SET payment_status = 'Paid' WHERE order_id = $1 AND payment_status = 'Unpaid'", orderID)
	if err != nil {
		return classify(err, "mark order paid")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrOrderAlreadyPaid
	}
	return nil
}

// classify maps driver failures onto the domain categories. Errors that are
// already categorized pass through untouched.
func classify(err error, op string) error {
	if err == nil || domain.Category(err) != nil {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%s: %w: %w", op, domain.ErrTransient, err)
		}
		if pqErr.Code.Class() == "08" || pqErr.Code.Class() == "57" {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrTransient, err)
		}
		return errors.Wrapf(err, "%s (sqlstate %s)", op, pqErr.Code)
	}

	// database/sql ends the transaction itself once the attempt context expires.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransient, err)
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransient, err)
	}
	return errors.Wrap(err, op)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

var _ service.LedgerStore = (*PostgresStore)(nil)
