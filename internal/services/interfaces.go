package services

import (
	"context"

	"gorm.io/gorm"

	"papertrade/internal/models"
	"papertrade/internal/pagination"
)

// StartingCashCents is the simulated cash every new user starts with.
const StartingCashCents int64 = 10_000_00

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// Holding is the net position for one symbol, derived from the
// transaction log. Shares may be zero for symbols the user has fully
// sold out of.
type Holding struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Shares int64  `json:"shares"`
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Type   *models.TransactionType
	Symbol *string
}

// LedgerStorer defines the contract for the durable ledger: user records,
// cash balances, and the append-only transaction log. Holdings are always
// derived from the log, never stored separately. SetCashBalance and
// AppendTransaction take the enclosing *gorm.DB so callers can pair them
// inside one Atomic block: either both persist or neither does.
type LedgerStorer interface {
	CreateUser(username, passwordHash string) (*models.User, error)
	FindUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetCashBalance(userID uint) (int64, error)
	SetCashBalance(tx *gorm.DB, userID uint, balance int64) error
	AppendTransaction(tx *gorm.DB, record *models.Transaction) error
	SumSharesHeld(userID uint, symbol string) (int64, error)
	ListHoldingsBySymbol(userID uint) ([]Holding, error)
	ListTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	Atomic(fn func(tx *gorm.DB) error) error
}

// OrderConfirmation is the structured result of a committed order.
// All currency amounts are in cents.
type OrderConfirmation struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Shares int64  `json:"shares"`
	Price  int64  `json:"price"`
	Total  int64  `json:"total"`
	Cash   int64  `json:"cash"`
}

// OrderExecutor defines the contract for executing buy/sell orders and
// cash deposits. A rejected order never changes ledger state.
type OrderExecutor interface {
	Buy(ctx context.Context, userID uint, symbol string, shares int64) (*OrderConfirmation, error)
	Sell(ctx context.Context, userID uint, symbol string, shares int64) (*OrderConfirmation, error)
	AddCash(userID uint, amount int64) (int64, error)
}

// HoldingValue is one portfolio line marked to market.
type HoldingValue struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Shares int64  `json:"shares"`
	Price  int64  `json:"price"`
	Value  int64  `json:"value"`
}

// PortfolioSummary contains the user's current holdings with live
// prices, cash balance, and total net worth in cents.
type PortfolioSummary struct {
	Holdings   []HoldingValue `json:"holdings"`
	Cash       int64          `json:"cash"`
	TotalValue int64          `json:"total_value"`
}

// PortfolioValuator defines the contract for mark-to-market valuation.
type PortfolioValuator interface {
	ValuePortfolio(ctx context.Context, userID uint) (*PortfolioSummary, error)
}
