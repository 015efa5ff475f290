package service

import (
	"context"

	"overcooked-pos/ledger-svc/internal/domain"

	log "github.com/sirupsen/logrus"
)

type OrderService struct {
	store     LedgerStore
	publisher EventPublisher
	retry     RetryPolicy
}

func NewOrderService(store LedgerStore, publisher EventPublisher, retry RetryPolicy) *OrderService {
	return &OrderService{store: store, publisher: publisher, retry: retry}
}

// PlaceOrder turns a cart into an Unpaid order with priced line items and a
// recomputed total, all in one atomic unit. It never touches account balances.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Order, error) {
	if err := validateCart(req); err != nil {
		return nil, err
	}

	var placed *domain.Order
	err := runAtomic(ctx, s.store, s.retry, "place_order", func(ctx context.Context, tx LedgerTx) error {
		order := &domain.Order{
			CustomerID:    req.CustomerID,
			RestaurantID:  req.RestaurantID,
			PaymentStatus: domain.StatusUnpaid,
		}
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}

		items := make([]domain.OrderItem, 0, len(req.Items))
		for _, entry := range req.Items {
			menuItem, err := tx.GetMenuItem(ctx, entry.MenuItemID)
			if err != nil {
				return err
			}
			item := domain.OrderItem{
				OrderID:    order.ID,
				MenuItemID: menuItem.ID,
				Name:       menuItem.Name,
				Quantity:   entry.Quantity,
				Price:      menuItem.Price,
			}
			if err := tx.InsertOrderItem(ctx, &item); err != nil {
				return err
			}
			items = append(items, item)
		}

		total, err := tx.SumOrderItems(ctx, order.ID)
		if err != nil {
			return err
		}
		if err := tx.UpdateOrderTotal(ctx, order.ID, total); err != nil {
			return err
		}

		order.TotalAmount = total
		order.Items = items
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"order_id":     placed.ID,
		"customer_id":  placed.CustomerID,
		"total_amount": placed.TotalAmount.StringFixed(2),
		"line_items":   len(placed.Items),
	}).Info("order placed")

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, domain.NewOrderPlacedEvent(placed)); err != nil {
			log.WithField("order_id", placed.ID).WithError(err).Warn("failed to publish order_placed event")
		}
	}

	return placed, nil
}

func (s *OrderService) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	if orderID <= 0 {
		return nil, domain.ErrMissingField
	}
	return s.store.GetOrder(ctx, orderID)
}

func validateCart(req domain.PlaceOrderRequest) error {
	if req.CustomerID <= 0 || req.RestaurantID <= 0 {
		return domain.ErrMissingField
	}
	if len(req.Items) == 0 {
		return domain.ErrEmptyCart
	}
	for _, item := range req.Items {
		if item.MenuItemID <= 0 {
			return domain.ErrMissingField
		}
		if item.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
	}
	return nil
}
