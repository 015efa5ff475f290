package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced      = "order_placed"
	EventPaymentProcessed = "payment_processed"
)

type EventItem struct {
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

// LedgerEvent is the message ledger-svc publishes after a committed unit.
type LedgerEvent struct {
	Type           string          `json:"type"`
	OrderID        int64           `json:"order_id"`
	CustomerID     int64           `json:"customer_id,omitempty"`
	RestaurantID   int64           `json:"restaurant_id,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Items          []EventItem     `json:"items,omitempty"`
	PaymentID      int64           `json:"payment_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method,omitempty"`
	PayerAccountID int64           `json:"payer_account_id,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// AffectsReports reports whether the event changes any report result. The
// reports aggregate orders only, so payments leave them untouched.
func (e LedgerEvent) AffectsReports() bool {
	return e.Type == EventOrderPlaced
}
