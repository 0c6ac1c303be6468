package services

import (
	"golang.org/x/crypto/bcrypt"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	store LedgerStorer
}

// NewUserService creates a new UserServicer.
func NewUserService(store LedgerStorer) UserServicer {
	return &userService{store: store}
}

// Register creates a new user with a hashed password and the default
// starting cash balance.
func (s *userService) Register(username, password string) (*models.User, error) {
	// Validate input
	if username == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username and password are required")
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.store.CreateUser(username, string(hashedPassword))
}

// GetUserByUsername retrieves a user by username.
func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	return s.store.FindUserByUsername(username)
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	return s.store.GetUserByID(id)
}

// VerifyPassword checks if the provided password matches the stored hash.
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}
