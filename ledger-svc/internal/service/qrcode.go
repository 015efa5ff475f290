package service

import (
	"context"
	"fmt"

	"overcooked-pos/ledger-svc/internal/domain"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID int64) ([]byte, error)
}

type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID int64) ([]byte, error) {
	qrData := fmt.Sprintf("%s/receipt.html?order_id=%d", g.BaseURL, orderID)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}

// ReceiptService renders a scannable receipt link for orders that are paid.
type ReceiptService struct {
	store     LedgerStore
	qrEncoder QRGenerator
}

func NewReceiptService(store LedgerStore, qr QRGenerator) *ReceiptService {
	return &ReceiptService{store: store, qrEncoder: qr}
}

func (s *ReceiptService) QRCode(ctx context.Context, orderID int64) ([]byte, error) {
	if orderID <= 0 {
		return nil, domain.ErrMissingField
	}
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != domain.StatusPaid {
		return nil, domain.ErrOrderNotPaid
	}
	return s.qrEncoder.Generate(order.ID)
}
