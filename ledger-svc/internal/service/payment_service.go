package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"overcooked-pos/ledger-svc/internal/domain"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const paymentSuccessMessage = "Payment processed successfully."

// PaymentPolicy carries the business rules of the payment processor.
type PaymentPolicy struct {
	HouseAccountID     int64
	EnforceNoOverdraft bool
	RequireExactAmount bool
}

type PaymentService struct {
	store     LedgerStore
	marker    PaymentMarker
	publisher EventPublisher
	policy    PaymentPolicy
	retry     RetryPolicy
}

func NewPaymentService(store LedgerStore, marker PaymentMarker, publisher EventPublisher, policy PaymentPolicy, retry RetryPolicy) *PaymentService {
	return &PaymentService{
		store:     store,
		marker:    marker,
		publisher: publisher,
		policy:    policy,
		retry:     retry,
	}
}

// ProcessPayment moves req.Amount from the payer to the house account and
// marks the order Paid. The status check, both balance mutations, the payment
// insert and the status flip happen in a single atomic unit.
func (s *PaymentService) ProcessPayment(ctx context.Context, req domain.ProcessPaymentRequest) (*domain.PaymentConfirmation, error) {
	req.Method = strings.TrimSpace(req.Method)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	if s.marker != nil {
		if paid, err := s.marker.IsPaid(ctx, req.OrderID); err == nil && paid {
			return nil, domain.ErrOrderAlreadyPaid
		}
	}

	var payment *domain.Payment
	err := runAtomic(ctx, s.store, s.retry, "process_payment", func(ctx context.Context, tx LedgerTx) error {
		order, err := tx.LockOrder(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if order.PaymentStatus == domain.StatusPaid {
			return domain.ErrOrderAlreadyPaid
		}
		if s.policy.RequireExactAmount && !req.Amount.Equal(order.TotalAmount) {
			return domain.ErrAmountMismatch
		}

		accounts, err := s.lockAccounts(ctx, tx, req.PayerAccountID)
		if err != nil {
			return err
		}

		p := &domain.Payment{
			OrderID:       order.ID,
			Amount:        req.Amount,
			Method:        req.Method,
			CardDetailsID: req.CardDetailsID,
			BankAccountID: req.PayerAccountID,
		}
		if err := tx.InsertPayment(ctx, p); err != nil {
			return err
		}

		payer := accounts[req.PayerAccountID]
		if s.policy.EnforceNoOverdraft && payer.Balance.Sub(req.Amount).IsNegative() {
			return domain.ErrInsufficientFunds
		}
		if err := tx.AdjustBalance(ctx, req.PayerAccountID, req.Amount.Neg()); err != nil {
			return err
		}
		if err := tx.AdjustBalance(ctx, s.policy.HouseAccountID, req.Amount); err != nil {
			return err
		}
		if err := tx.MarkOrderPaid(ctx, order.ID); err != nil {
			return err
		}

		payment = p
		return nil
	})
	if err != nil {
		log.WithFields(log.Fields{
			"order_id":         req.OrderID,
			"payer_account_id": req.PayerAccountID,
		}).WithError(err).Info("payment rejected")
		return nil, err
	}

	log.WithFields(log.Fields{
		"order_id":         payment.OrderID,
		"payment_id":       payment.ID,
		"amount":           payment.Amount.StringFixed(2),
		"payer_account_id": payment.BankAccountID,
	}).Info("payment processed")

	if s.marker != nil {
		if err := s.marker.MarkPaid(ctx, payment.OrderID); err != nil {
			log.WithField("order_id", payment.OrderID).WithError(err).Warn("failed to cache paid marker")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, domain.NewPaymentProcessedEvent(payment)); err != nil {
			log.WithField("order_id", payment.OrderID).WithError(err).Warn("failed to publish payment_processed event")
		}
	}

	return &domain.PaymentConfirmation{Message: paymentSuccessMessage, Payment: *payment}, nil
}

// lockAccounts locks the payer and house rows in ascending id order. Every
// payment uses the same order, so overlapping transfers cannot deadlock.
func (s *PaymentService) lockAccounts(ctx context.Context, tx LedgerTx, payerID int64) (map[int64]*domain.BankAccount, error) {
	ids := []int64{payerID, s.policy.HouseAccountID}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	accounts := make(map[int64]*domain.BankAccount, len(ids))
	for _, id := range ids {
		account, err := tx.LockAccount(ctx, id)
		if err != nil {
			if id == s.policy.HouseAccountID {
				return nil, fmt.Errorf("house account %d: %w", id, err)
			}
			return nil, err
		}
		accounts[id] = account
	}
	return accounts, nil
}

func (s *PaymentService) validate(req domain.ProcessPaymentRequest) error {
	if req.OrderID <= 0 || req.PayerAccountID <= 0 || req.Method == "" {
		return domain.ErrMissingField
	}
	if !ValidAmount(req.Amount) {
		return domain.ErrInvalidAmount
	}
	if req.CardDetailsID != nil && *req.CardDetailsID <= 0 {
		return domain.ErrMissingField
	}
	if req.PayerAccountID == s.policy.HouseAccountID {
		return domain.ErrPayerIsHouse
	}
	return nil
}

// ValidAmount reports whether amount is a positive currency value with cent precision.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Round(2))
}
