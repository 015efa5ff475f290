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

// LedgerEvent is published to Kafka after a ledger transaction commits.
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

func NewOrderPlacedEvent(order *Order) LedgerEvent {
	items := make([]EventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, EventItem{MenuItemID: item.MenuItemID, Name: item.Name, Quantity: item.Quantity})
	}
	return LedgerEvent{
		Type:         EventOrderPlaced,
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		RestaurantID: order.RestaurantID,
		TotalAmount:  order.TotalAmount,
		Items:        items,
		Timestamp:    order.OrderDate,
	}
}

func NewPaymentProcessedEvent(payment *Payment) LedgerEvent {
	return LedgerEvent{
		Type:           EventPaymentProcessed,
		OrderID:        payment.OrderID,
		PaymentID:      payment.ID,
		Amount:         payment.Amount,
		Method:         payment.Method,
		PayerAccountID: payment.BankAccountID,
		Timestamp:      payment.PaymentDate,
	}
}
