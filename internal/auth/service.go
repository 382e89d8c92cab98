package auth

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrEmailRequired      = fmt.Errorf("%w: email is required", library.ErrValidation)
	ErrEmailInvalid       = fmt.Errorf("%w: invalid email format", library.ErrValidation)
	ErrPasswordRequired   = fmt.Errorf("%w: password is required", library.ErrValidation)
	ErrPasswordTooLong    = fmt.Errorf("%w: password exceeds maximum length of 72 bytes", library.ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", library.ErrAuthenticationFailed)
)

// AccountRepository defines the account storage used by Service.
type AccountRepository interface {
	CreateIfAbsent(account *entities.Account) (bool, error)
	GetAccount(email string) (*entities.Account, error)
	ListAccounts() ([]entities.Account, error)
	DeleteAccount(email string) (int64, error)
	TouchLastLogin(email string, at time.Time) error
}

// Service handles account registration, credential checks and removal.
type Service struct {
	accounts AccountRepository
	config   config.Auth
}

// NewService creates a new account service.
func NewService(accounts AccountRepository, cfg config.Auth) *Service {
	return &Service{
		accounts: accounts,
		config:   cfg,
	}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	// RFC 5321 limit is 254
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

// Register creates a regular account. It reports false when the email is
// already registered; the stored password is left untouched in that case.
func (s *Service) Register(email, password string) (bool, error) {
	return s.create(email, password, false)
}

// EnsureAdmin creates the built-in administrator unless an account with the
// same email already exists.
func (s *Service) EnsureAdmin(email, password string) (bool, error) {
	return s.create(email, password, true)
}

func (s *Service) create(email, password string, isAdmin bool) (bool, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return false, err
	}

	// Skip hashing when the account is already there.
	if _, err := s.accounts.GetAccount(email); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, library.Operational("get account", err)
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return false, err
	}

	created, err := s.accounts.CreateIfAbsent(&entities.Account{
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	})
	if err != nil {
		return false, library.Operational("create account", err)
	}
	return created, nil
}

// Authenticate validates credentials and returns the account.
// Unknown emails and wrong passwords fail the same way.
func (s *Service) Authenticate(email, password string) (*entities.Account, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetAccount(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, library.Operational("get account", err)
	}

	if err := CheckPassword(password, account.PasswordHash); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.accounts.TouchLastLogin(email, now); err != nil {
		log.Printf("Failed to record login time for %s: %v", email, err)
	} else {
		account.LastLoginAt = &now
	}

	return account, nil
}

// GetAccount returns the account or library.ErrAccountNotFound.
func (s *Service) GetAccount(email string) (*entities.Account, error) {
	account, err := s.accounts.GetAccount(NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, library.ErrAccountNotFound
		}
		return nil, library.Operational("get account", err)
	}
	return account, nil
}

func (s *Service) ListAccounts() ([]entities.Account, error) {
	accounts, err := s.accounts.ListAccounts()
	if err != nil {
		return nil, library.Operational("list accounts", err)
	}
	return accounts, nil
}

// RemoveAccount deletes the account together with its open checkouts.
func (s *Service) RemoveAccount(email string) error {
	deleted, err := s.accounts.DeleteAccount(NormalizeEmail(email))
	if err != nil {
		return library.Operational("delete account", err)
	}
	if deleted == 0 {
		return library.ErrAccountNotFound
	}
	return nil
}

// IdentityFor converts an account into the identity carried by a request.
func IdentityFor(account *entities.Account) library.Identity {
	if account == nil {
		return library.Anonymous
	}
	return library.Identity{Email: account.Email, IsAdmin: account.IsAdmin}
}
