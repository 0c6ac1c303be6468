package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/models"
	"papertrade/internal/pagination"
)

// ledgerStore is the GORM-backed LedgerStorer. It exclusively owns the
// users and transactions tables; other services mutate them only through
// this interface.
type ledgerStore struct {
	db *gorm.DB
}

// NewLedgerStore creates a new LedgerStorer.
func NewLedgerStore(db *gorm.DB) LedgerStorer {
	return &ledgerStore{db: db}
}

// CreateUser inserts a new user with the fixed starting cash balance.
// Duplicate usernames are caught by the unique index, so two concurrent
// registrations of the same name both resolve to DUPLICATE_USERNAME.
func (s *ledgerStore) CreateUser(username, passwordHash string) (*models.User, error) {
	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Cash:         StartingCashCents,
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateUsername
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// FindUserByUsername retrieves a user by username.
func (s *ledgerStore) FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *ledgerStore) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetCashBalance returns the user's cash balance in cents.
func (s *ledgerStore) GetCashBalance(userID uint) (int64, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return 0, err
	}
	return user.Cash, nil
}

// SetCashBalance unconditionally overwrites the user's cash balance.
// The caller is responsible for computing the new value and for running
// this inside an Atomic block when paired with a ledger append.
func (s *ledgerStore) SetCashBalance(tx *gorm.DB, userID uint, balance int64) error {
	result := tx.Model(&models.User{}).Where("id = ?", userID).Update("cash", balance)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// AppendTransaction appends one immutable record to the transaction log.
// Existing records are never mutated or removed.
func (s *ledgerStore) AppendTransaction(tx *gorm.DB, record *models.Transaction) error {
	if err := tx.Create(record).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SumSharesHeld aggregates all historical share deltas for one symbol.
// Returns 0 for symbols the user never traded.
func (s *ledgerStore) SumSharesHeld(userID uint, symbol string) (int64, error) {
	var shares int64
	if err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(shares), 0)").
		Where("user_id = ? AND symbol = ?", userID, strings.ToUpper(symbol)).
		Scan(&shares).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return shares, nil
}

// ListHoldingsBySymbol returns the net position for every symbol the user
// ever traded, including symbols whose net position is now zero. Callers
// filter as needed.
func (s *ledgerStore) ListHoldingsBySymbol(userID uint) ([]Holding, error) {
	var holdings []Holding
	if err := s.db.Model(&models.Transaction{}).
		Select("symbol, name, SUM(shares) AS shares").
		Where("user_id = ?", userID).
		Group("symbol, name").
		Order("symbol").
		Scan(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holdings, nil
}

// ListTransactions returns the user's transaction history in insertion
// order, optionally filtered by type and symbol.
func (s *ledgerStore) ListTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.Symbol != nil {
		base = base.Where("symbol = ?", strings.ToUpper(*filter.Symbol))
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Order("id").Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Atomic runs fn inside one database transaction.
func (s *ledgerStore) Atomic(fn func(tx *gorm.DB) error) error {
	return s.db.Transaction(fn)
}
