package services

import (
	"context"
	"fmt"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/quotes"
)

// portfolioService derives current holdings and net worth from the
// transaction log plus live quotes. It is a pure read: calling it any
// number of times never alters ledger state.
type portfolioService struct {
	store    LedgerStorer
	provider quotes.Provider
}

// NewPortfolioService creates a new PortfolioValuator.
func NewPortfolioService(store LedgerStorer, provider quotes.Provider) PortfolioValuator {
	return &portfolioService{store: store, provider: provider}
}

// ValuePortfolio marks the user's holdings to market. Symbols with a net
// position of zero are skipped. If any quote lookup fails the whole
// valuation fails; there are no partial results.
func (s *portfolioService) ValuePortfolio(ctx context.Context, userID uint) (*PortfolioSummary, error) {
	cash, err := s.store.GetCashBalance(userID)
	if err != nil {
		return nil, err
	}

	holdings, err := s.store.ListHoldingsBySymbol(userID)
	if err != nil {
		return nil, err
	}

	summary := &PortfolioSummary{
		Holdings:   []HoldingValue{},
		Cash:       cash,
		TotalValue: cash,
	}

	for _, h := range holdings {
		if h.Shares == 0 {
			continue
		}

		q, err := s.provider.Lookup(ctx, h.Symbol)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err)
		}

		value, ok := mulCents(q.Price, h.Shares)
		if !ok {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer,
				fmt.Errorf("position value overflows for %s", h.Symbol))
		}
		summary.Holdings = append(summary.Holdings, HoldingValue{
			Symbol: h.Symbol,
			Name:   h.Name,
			Shares: h.Shares,
			Price:  q.Price,
			Value:  value,
		})
		summary.TotalValue += value
		if summary.TotalValue < 0 {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer,
				fmt.Errorf("portfolio total overflows for user %d", userID))
		}
	}

	return summary, nil
}
