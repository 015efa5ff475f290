package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	StatusUnpaid PaymentStatus = "Unpaid"
	StatusPaid   PaymentStatus = "Paid"
)

type Customer struct {
	ID                int64     `json:"customer_id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	LoyaltyCardNumber *string   `json:"loyalty_card_number,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type MenuItem struct {
	ID          int64           `json:"menu_item_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

type Order struct {
	ID            int64           `json:"order_id"`
	CustomerID    int64           `json:"customer_id"`
	RestaurantID  int64           `json:"restaurant_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	OrderDate     time.Time       `json:"order_date"`
	Items         []OrderItem     `json:"items,omitempty"`
}

// OrderItem is a line item. Price is the menu price copied at order time.
type OrderItem struct {
	ID         int64           `json:"order_item_id"`
	OrderID    int64           `json:"order_id"`
	MenuItemID int64           `json:"menu_item_id"`
	Name       string          `json:"name,omitempty"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

// LineTotal is quantity × price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type BankAccount struct {
	ID      int64           `json:"bank_account_id"`
	Balance decimal.Decimal `json:"balance"`
}

type Payment struct {
	ID            int64           `json:"payment_id"`
	OrderID       int64           `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"payment_method"`
	CardDetailsID *int64          `json:"card_details_id,omitempty"`
	BankAccountID int64           `json:"bank_account_id"`
	PaymentDate   time.Time       `json:"payment_date"`
}

type CartItem struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
}

type PlaceOrderRequest struct {
	CustomerID   int64      `json:"customer_id"`
	RestaurantID int64      `json:"restaurant_id"`
	Items        []CartItem `json:"items"`
}

type ProcessPaymentRequest struct {
	OrderID        int64           `json:"order_id"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"payment_method"`
	PayerAccountID int64           `json:"bank_account_id"`
	CardDetailsID  *int64          `json:"card_details_id,omitempty"`
}

type PaymentConfirmation struct {
	Message string  `json:"message"`
	Payment Payment `json:"payment"`
}
