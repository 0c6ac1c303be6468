package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"papertrade/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, a unique
// username, and the default starting cash of $10,000.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithCash(t, db, 10_000_00)
}

// CreateTestUserWithCash creates a user with the given cash balance (in cents).
func CreateTestUserWithCash(t *testing.T, db *gorm.DB, cash int64) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     fmt.Sprintf("user%d", nextID()),
		PasswordHash: string(hash),
		Cash:         cash,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction appends a transaction to the test ledger. Shares
// must carry the sign matching the type (positive BUY, negative SELL).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, symbol, name string, shares, price int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:    userID,
		Type:      txType,
		Name:      name,
		Symbol:    symbol,
		Shares:    shares,
		Price:     price,
		Timestamp: time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CountTransactions returns the number of ledger rows for a user.
func CountTransactions(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	return count
}

// GetCash reads a user's cash balance directly.
func GetCash(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	return user.Cash
}
