package services

import (
	"context"
	"testing"

	"papertrade/internal/models"
	"papertrade/internal/quotes"
	"papertrade/internal/testutil"
)

func TestValuePortfolio(t *testing.T) {
	t.Run("new_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUserWithCash(t, db, 10_000_00)

		summary, err := svc.ValuePortfolio(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		if len(summary.Holdings) != 0 {
			t.Errorf("expected empty holdings, got %d", len(summary.Holdings))
		}
		if summary.TotalValue != 10_000_00 {
			t.Errorf("expected total value == cash == 1000000, got %d", summary.TotalValue)
		}
	})

	t.Run("marks_holdings_to_market", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUserWithCash(t, db, 1_000_00)
		// 7 AAPL bought at 140, now quoted at 150
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeBuy, "AAPL", "Apple Inc", 7, 140_00)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeBuy, "NFLX", "Netflix Inc", 2, 45_00)

		summary, err := svc.ValuePortfolio(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		if len(summary.Holdings) != 2 {
			t.Fatalf("expected 2 holdings, got %d", len(summary.Holdings))
		}
		if summary.Holdings[0].Value != 7*150_00 {
			t.Errorf("expected AAPL value 105000, got %d", summary.Holdings[0].Value)
		}
		want := int64(1_000_00 + 7*150_00 + 2*50_00)
		if summary.TotalValue != want {
			t.Errorf("expected total %d, got %d", want, summary.TotalValue)
		}
		if summary.Cash != 1_000_00 {
			t.Errorf("expected cash 100000, got %d", summary.Cash)
		}
	})

	t.Run("skips_zero_positions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUserWithCash(t, db, 500_00)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeBuy, "AAPL", "Apple Inc", 5, 140_00)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeSell, "AAPL", "Apple Inc", -5, 150_00)

		summary, err := svc.ValuePortfolio(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		if len(summary.Holdings) != 0 {
			t.Errorf("expected fully-sold symbol to be skipped, got %d holdings", len(summary.Holdings))
		}
		if summary.TotalValue != 500_00 {
			t.Errorf("expected total == cash, got %d", summary.TotalValue)
		}
	})

	t.Run("quote_failure_fails_whole_valuation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		// Provider knows nothing; every lookup fails.
		svc := NewPortfolioService(NewLedgerStore(db), quotes.NewMemoryProvider())
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeBuy, "AAPL", "Apple Inc", 5, 140_00)

		_, err := svc.ValuePortfolio(context.Background(), user.ID)
		testutil.AssertAppError(t, err, "QUOTE_UNAVAILABLE")
	})

	t.Run("position_value_overflow", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUser(t, db)
		// Marking this position at the live price does not fit in int64.
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeBuy, "AAPL", "Apple Inc", 1<<50, 1)

		_, err := svc.ValuePortfolio(context.Background(), user.ID)
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(NewLedgerStore(db), newTestProvider())

		_, err := svc.ValuePortfolio(context.Background(), 9999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
