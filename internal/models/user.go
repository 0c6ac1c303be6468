package models

import "time"

// User represents the user model in the database. Cash is the user's
// simulated cash balance in integer cents; it is mutated only by the
// order executor (buy/sell) and the cash-deposit operation.
type User struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Username     string        `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string        `gorm:"not null" json:"-"`
	Cash         int64         `gorm:"type:bigint;not null" json:"cash"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
