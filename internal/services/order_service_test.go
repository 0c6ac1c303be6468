package services

import (
	"context"
	"math"
	"sync"
	"testing"

	"papertrade/internal/models"
	"papertrade/internal/quotes"
	"papertrade/internal/testutil"
)

func newTestProvider() *quotes.MemoryProvider {
	p := quotes.NewMemoryProvider()
	p.Set(quotes.Quote{Symbol: "AAPL", Name: "Apple Inc", Price: 150_00})
	p.Set(quotes.Quote{Symbol: "NFLX", Name: "Netflix Inc", Price: 50_00})
	return p
}

func TestBuy(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := NewLedgerStore(db)
		svc := NewOrderService(store, newTestProvider())
		user := testutil.CreateTestUser(t, db)

		conf, err := svc.Buy(context.Background(), user.ID, "aapl", 10)
		testutil.AssertNoError(t, err)

		if conf.Symbol != "AAPL" {
			t.Errorf("expected symbol AAPL, got %s", conf.Symbol)
		}
		if conf.Shares != 10 {
			t.Errorf("expected 10 shares, got %d", conf.Shares)
		}
		// Total = 10 * 15000 = 150000
		if conf.Total != 150_000 {
			t.Errorf("expected total 150000, got %d", conf.Total)
		}

		// cashBefore - cost == cashAfter
		cash := testutil.GetCash(t, db, user.ID)
		if cash != user.Cash-150_000 {
			t.Errorf("expected cash %d, got %d", user.Cash-150_000, cash)
		}
		if conf.Cash != cash {
			t.Errorf("confirmation cash %d does not match ledger %d", conf.Cash, cash)
		}

		// Exactly one new transaction row with type BUY and positive shares
		if n := testutil.CountTransactions(t, db, user.ID); n != 1 {
			t.Fatalf("expected 1 transaction, got %d", n)
		}
		var tx models.Transaction
		db.Where("user_id = ?", user.ID).First(&tx)
		if tx.Type != models.TransactionTypeBuy {
			t.Errorf("expected BUY, got %s", tx.Type)
		}
		if tx.Shares != 10 {
			t.Errorf("expected shares 10, got %d", tx.Shares)
		}
		if tx.Price != 150_00 {
			t.Errorf("expected execution price 15000, got %d", tx.Price)
		}
	})

	t.Run("non_positive_shares", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Buy(context.Background(), user.ID, "AAPL", 0)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")

		_, err = svc.Buy(context.Background(), user.ID, "AAPL", -3)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("unknown_symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Buy(context.Background(), user.ID, "ZZZZ", 1)
		testutil.AssertAppError(t, err, "INVALID_SYMBOL")
	})

	t.Run("share_count_overflows_total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUser(t, db)

		// price * shares wraps negative here; the wrapped cost would
		// pass the affordability check and credit the buyer.
		_, err := svc.Buy(context.Background(), user.ID, "AAPL", 1<<50)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")

		if cash := testutil.GetCash(t, db, user.ID); cash != user.Cash {
			t.Errorf("rejected buy changed cash: %d", cash)
		}
		if n := testutil.CountTransactions(t, db, user.ID); n != 0 {
			t.Errorf("rejected buy appended %d transactions", n)
		}
	})

	t.Run("insufficient_funds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		// cash=100, price=50, shares=3 -> cost=150
		user := testutil.CreateTestUserWithCash(t, db, 100_00)

		_, err := svc.Buy(context.Background(), user.ID, "NFLX", 3)
		testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")

		// Rejection leaves no trace
		if cash := testutil.GetCash(t, db, user.ID); cash != 100_00 {
			t.Errorf("rejected buy changed cash: %d", cash)
		}
		if n := testutil.CountTransactions(t, db, user.ID); n != 0 {
			t.Errorf("rejected buy appended %d transactions", n)
		}
	})

	t.Run("exact_funds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUserWithCash(t, db, 150_00)

		// remaining == 0 is allowed
		conf, err := svc.Buy(context.Background(), user.ID, "NFLX", 3)
		testutil.AssertNoError(t, err)
		if conf.Cash != 0 {
			t.Errorf("expected zero cash remaining, got %d", conf.Cash)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())

		_, err := svc.Buy(context.Background(), 9999, "AAPL", 1)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestSell(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := NewLedgerStore(db)
		svc := NewOrderService(store, newTestProvider())
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeBuy, "AAPL", "Apple Inc", 10, 140_00)

		conf, err := svc.Sell(context.Background(), user.ID, "AAPL", 4)
		testutil.AssertNoError(t, err)

		// Proceeds at the live price, not the historical buy price
		if conf.Total != 4*150_00 {
			t.Errorf("expected proceeds 60000, got %d", conf.Total)
		}
		if conf.Shares != -4 {
			t.Errorf("expected confirmation shares -4, got %d", conf.Shares)
		}

		// cashAfter - cashBefore == proceeds
		cash := testutil.GetCash(t, db, user.ID)
		if cash-user.Cash != 60_000 {
			t.Errorf("expected cash to grow by 60000, grew by %d", cash-user.Cash)
		}

		// Exactly one new SELL row with negative share count
		var tx models.Transaction
		db.Where("user_id = ? AND type = ?", user.ID, models.TransactionTypeSell).First(&tx)
		if tx.Shares != -4 {
			t.Errorf("expected shares -4, got %d", tx.Shares)
		}
		if tx.Price != 150_00 {
			t.Errorf("expected execution price 15000, got %d", tx.Price)
		}

		// Net position derived from the log
		owned, err := store.SumSharesHeld(user.ID, "AAPL")
		testutil.AssertNoError(t, err)
		if owned != 6 {
			t.Errorf("expected 6 shares held, got %d", owned)
		}
	})

	t.Run("non_positive_shares", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Sell(context.Background(), user.ID, "AAPL", 0)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("unknown_symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Sell(context.Background(), user.ID, "ZZZZ", 1)
		testutil.AssertAppError(t, err, "INVALID_SYMBOL")
	})

	t.Run("insufficient_shares", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeBuy, "AAPL", "Apple Inc", 5, 140_00)

		_, err := svc.Sell(context.Background(), user.ID, "AAPL", 6)
		testutil.AssertAppError(t, err, "INSUFFICIENT_SHARES")

		// Rejection leaves no trace
		if cash := testutil.GetCash(t, db, user.ID); cash != user.Cash {
			t.Errorf("rejected sell changed cash: %d", cash)
		}
		if n := testutil.CountTransactions(t, db, user.ID); n != 1 {
			t.Errorf("rejected sell appended transactions: count %d", n)
		}
	})

	t.Run("never_traded_symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Sell(context.Background(), user.ID, "AAPL", 1)
		testutil.AssertAppError(t, err, "INSUFFICIENT_SHARES")
	})

	t.Run("proceeds_overflow", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUser(t, db)
		// A position large enough that selling it at the live price
		// would not fit in int64.
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeBuy, "AAPL", "Apple Inc", 1<<50, 1)

		_, err := svc.Sell(context.Background(), user.ID, "AAPL", 1<<50)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")

		if cash := testutil.GetCash(t, db, user.ID); cash != user.Cash {
			t.Errorf("rejected sell changed cash: %d", cash)
		}
		if n := testutil.CountTransactions(t, db, user.ID); n != 1 {
			t.Errorf("rejected sell appended transactions: count %d", n)
		}
	})
}

func TestBuySellInterleaved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := NewLedgerStore(db)
	svc := NewOrderService(store, newTestProvider())
	user := testutil.CreateTestUserWithCash(t, db, 10_000_00)

	_, err := svc.Buy(context.Background(), user.ID, "NFLX", 10)
	testutil.AssertNoError(t, err)
	_, err = svc.Sell(context.Background(), user.ID, "NFLX", 3)
	testutil.AssertNoError(t, err)

	owned, err := store.SumSharesHeld(user.ID, "NFLX")
	testutil.AssertNoError(t, err)
	if owned != 7 {
		t.Errorf("expected 7 shares after BUY 10, SELL 3; got %d", owned)
	}

	// Net cash effect: -10*5000 + 3*5000 = -35000
	if cash := testutil.GetCash(t, db, user.ID); cash != 10_000_00-35_000 {
		t.Errorf("expected cash %d, got %d", 10_000_00-35_000, cash)
	}
}

func TestConcurrentSells(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := NewLedgerStore(db)
	svc := NewOrderService(store, newTestProvider())
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeBuy, "AAPL", "Apple Inc", 5, 140_00)

	// Two sells of 3 against 5 shares: only one can be satisfied.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Sell(context.Background(), user.ID, "AAPL", 3)
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			testutil.AssertAppError(t, err, "INSUFFICIENT_SHARES")
			rejected++
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("expected exactly one success and one rejection, got %d/%d", succeeded, rejected)
	}

	owned, err := store.SumSharesHeld(user.ID, "AAPL")
	testutil.AssertNoError(t, err)
	if owned != 2 {
		t.Errorf("expected 2 shares after one successful sell, got %d", owned)
	}
	if cash := testutil.GetCash(t, db, user.ID); cash != user.Cash+3*150_00 {
		t.Errorf("expected cash credited exactly once, got %d", cash)
	}
}

func TestAddCash(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUser(t, db)

		newCash, err := svc.AddCash(user.ID, 500_00)
		testutil.AssertNoError(t, err)
		if newCash != user.Cash+500_00 {
			t.Errorf("expected balance %d, got %d", user.Cash+500_00, newCash)
		}
		if cash := testutil.GetCash(t, db, user.ID); cash != newCash {
			t.Errorf("ledger balance %d does not match returned %d", cash, newCash)
		}
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.AddCash(user.ID, 0)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")

		_, err = svc.AddCash(user.ID, -100)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")

		if cash := testutil.GetCash(t, db, user.ID); cash != user.Cash {
			t.Errorf("rejected deposit changed cash: %d", cash)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())

		_, err := svc.AddCash(9999, 100_00)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("balance_overflow", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOrderService(NewLedgerStore(db), newTestProvider())
		user := testutil.CreateTestUserWithCash(t, db, math.MaxInt64-50)

		_, err := svc.AddCash(user.ID, 100)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")

		if cash := testutil.GetCash(t, db, user.ID); cash != math.MaxInt64-50 {
			t.Errorf("rejected deposit changed cash: %d", cash)
		}
	})
}
