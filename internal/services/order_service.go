package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/models"
	"papertrade/internal/quotes"
)

// orderService validates and applies buy/sell orders and cash deposits.
// Every order either fully commits or fully rejects; rejection leaves no
// trace in the ledger.
type orderService struct {
	store    LedgerStorer
	provider quotes.Provider

	// userLocks serializes the balance-read -> balance-write ->
	// ledger-append sequence per user. Without it two concurrent sells
	// could both read the same stale share count and both succeed.
	userLocks sync.Map // map[uint]*sync.Mutex
}

// NewOrderService creates a new OrderExecutor.
func NewOrderService(store LedgerStorer, provider quotes.Provider) OrderExecutor {
	return &orderService{store: store, provider: provider}
}

func (s *orderService) lockUser(userID uint) func() {
	v, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// mulCents returns a*b, reporting whether the product fits in int64.
// Share counts are caller-controlled, so order totals must never be
// allowed to wrap.
func mulCents(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

// lookupQuote fetches the execution price for symbol, mapping provider
// failures onto the order error taxonomy.
func (s *orderService) lookupQuote(ctx context.Context, symbol string) (*quotes.Quote, error) {
	q, err := s.provider.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, quotes.ErrNotFound) {
			return nil, apperrors.ErrInvalidSymbol
		}
		return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err)
	}
	return q, nil
}

// Buy purchases shares of symbol at the current quoted price. The price
// fetched here is the immutable execution price; there is no re-quote
// between validation and commit.
func (s *orderService) Buy(ctx context.Context, userID uint, symbol string, shares int64) (*OrderConfirmation, error) {
	if shares <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	q, err := s.lookupQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	cost, ok := mulCents(q.Price, shares)
	if !ok {
		return nil, apperrors.ErrInvalidAmount
	}

	unlock := s.lockUser(userID)
	defer unlock()

	cash, err := s.store.GetCashBalance(userID)
	if err != nil {
		return nil, err
	}

	remaining := cash - cost
	if remaining < 0 {
		return nil, apperrors.ErrInsufficientFunds
	}

	err = s.store.Atomic(func(tx *gorm.DB) error {
		if err := s.store.SetCashBalance(tx, userID, remaining); err != nil {
			return err
		}
		return s.store.AppendTransaction(tx, &models.Transaction{
			UserID:    userID,
			Type:      models.TransactionTypeBuy,
			Name:      q.Name,
			Symbol:    q.Symbol,
			Shares:    shares,
			Price:     q.Price,
			Timestamp: time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	return &OrderConfirmation{
		Symbol: q.Symbol,
		Name:   q.Name,
		Shares: shares,
		Price:  q.Price,
		Total:  cost,
		Cash:   remaining,
	}, nil
}

// Sell sells shares of symbol at the current quoted price. A sell may
// never take the net position for the symbol below zero.
func (s *orderService) Sell(ctx context.Context, userID uint, symbol string, shares int64) (*OrderConfirmation, error) {
	if shares <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	q, err := s.lookupQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	owned, err := s.store.SumSharesHeld(userID, q.Symbol)
	if err != nil {
		return nil, err
	}
	if shares > owned {
		return nil, apperrors.ErrInsufficientShares
	}

	cash, err := s.store.GetCashBalance(userID)
	if err != nil {
		return nil, err
	}

	proceeds, ok := mulCents(q.Price, shares)
	if !ok {
		return nil, apperrors.ErrInvalidAmount
	}
	newCash := cash + proceeds
	if newCash < cash {
		return nil, apperrors.ErrInvalidAmount
	}

	err = s.store.Atomic(func(tx *gorm.DB) error {
		if err := s.store.SetCashBalance(tx, userID, newCash); err != nil {
			return err
		}
		return s.store.AppendTransaction(tx, &models.Transaction{
			UserID:    userID,
			Type:      models.TransactionTypeSell,
			Name:      q.Name,
			Symbol:    q.Symbol,
			Shares:    -shares,
			Price:     q.Price,
			Timestamp: time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	return &OrderConfirmation{
		Symbol: q.Symbol,
		Name:   q.Name,
		Shares: -shares,
		Price:  q.Price,
		Total:  proceeds,
		Cash:   newCash,
	}, nil
}

// AddCash deposits amount cents into the user's cash balance and returns
// the new balance. Deposits must be strictly positive.
func (s *orderService) AddCash(userID uint, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperrors.ErrInvalidAmount
	}

	unlock := s.lockUser(userID)
	defer unlock()

	cash, err := s.store.GetCashBalance(userID)
	if err != nil {
		return 0, err
	}

	newCash := cash + amount
	if newCash < cash {
		return 0, apperrors.ErrInvalidAmount
	}
	err = s.store.Atomic(func(tx *gorm.DB) error {
		return s.store.SetCashBalance(tx, userID, newCash)
	})
	if err != nil {
		return 0, err
	}

	return newCash, nil
}
