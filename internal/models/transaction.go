package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// Transaction represents one executed buy or sell order. Rows are
// immutable append-only ledger entries: no updates, no soft deletes.
// Shares is signed: positive for BUY, negative for SELL, so the sum of
// Shares per (user, symbol) is the net position. Price is the execution
// price per share in cents, locked in at validation time.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index:idx_transactions_user_symbol,priority:1" json:"user_id"`
	Type      TransactionType `gorm:"not null" json:"type"`
	Name      string          `gorm:"not null" json:"name"`
	Symbol    string          `gorm:"not null;index:idx_transactions_user_symbol,priority:2" json:"symbol"`
	Shares    int64           `gorm:"not null" json:"shares"`
	Price     int64           `gorm:"type:bigint;not null" json:"price"`
	Timestamp time.Time       `gorm:"not null" json:"timestamp"`
}
