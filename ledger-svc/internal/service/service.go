package service

import (
	"context"
	"strings"

	"overcooked-pos/ledger-svc/internal/domain"

	log "github.com/sirupsen/logrus"
)

type CustomerService struct {
	store LedgerStore
}

func NewCustomerService(store LedgerStore) *CustomerService {
	return &CustomerService{store: store}
}

func (s *CustomerService) Register(ctx context.Context, customer *domain.Customer) error {
	customer.FirstName = strings.TrimSpace(customer.FirstName)
	customer.LastName = strings.TrimSpace(customer.LastName)
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	if customer.FirstName == "" || customer.LastName == "" || customer.Email == "" {
		return domain.ErrMissingField
	}
	if customer.LoyaltyCardNumber != nil && strings.TrimSpace(*customer.LoyaltyCardNumber) == "" {
		customer.LoyaltyCardNumber = nil
	}
	return s.store.CreateCustomer(ctx, customer)
}

// MenuService serves the menu through a read-through cache. Order placement
// never reads prices from here.
type MenuService struct {
	store LedgerStore
	cache MenuCache
}

func NewMenuService(store LedgerStore, cache MenuCache) *MenuService {
	return &MenuService{store: store, cache: cache}
}

func (s *MenuService) List(ctx context.Context) ([]domain.MenuItem, error) {
	if s.cache != nil {
		if items, ok, err := s.cache.GetMenu(ctx); err == nil && ok {
			return items, nil
		}
	}

	items, err := s.store.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, items); err != nil {
			log.WithError(err).Warn("failed to cache menu")
		}
	}
	return items, nil
}

type AccountService struct {
	store LedgerStore
}

func NewAccountService(store LedgerStore) *AccountService {
	return &AccountService{store: store}
}

func (s *AccountService) Get(ctx context.Context, accountID int64) (*domain.BankAccount, error) {
	if accountID <= 0 {
		return nil, domain.ErrMissingField
	}
	return s.store.GetAccount(ctx, accountID)
}
