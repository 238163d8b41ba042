package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/govindup63/Ghstmail.me/internal/domain"
)

var (
	// ErrInvalidEmail indicates a malformed email address.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrEmailExists indicates the email is already registered.
	ErrEmailExists = errors.New("email already exists")
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates a failed email/password check.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserInactive indicates a disabled account.
	ErrUserInactive = errors.New("user is inactive")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserRepository is the storage surface the auth service needs.
type UserRepository interface {
	CreateUser(user *domain.User) error
	GetUserByID(id string) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	UpdateUser(user *domain.User) error
	UpdateLastLogin(userID string) error
}

// Service implements registration and login.
type Service struct {
	userRepo UserRepository
}

// NewService creates the auth service.
func NewService(userRepo UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// RegisterInput holds signup fields.
type RegisterInput struct {
	Email    string
	Password string
}

// LoginInput holds login fields.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates a new account. The email doubles as the forward
// target for every alias the account later creates.
func (s *Service) Register(input RegisterInput) (*domain.User, error) {
	if !ValidateEmail(input.Email) {
		return nil, ErrInvalidEmail
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	email := strings.ToLower(input.Email)
	if user, err := s.userRepo.GetUserByEmail(email); err == nil && user != nil {
		return nil, ErrEmailExists
	}

	passwordHash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks credentials and stamps the last login time.
func (s *Service) Login(input LoginInput) (*domain.User, error) {
	user, err := s.userRepo.GetUserByEmail(strings.ToLower(input.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	_ = s.userRepo.UpdateLastLogin(user.ID)
	return user, nil
}

// GetUserByID resolves a user by ID.
func (s *Service) GetUserByID(userID string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ValidateEmail reports whether the address looks like an email.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword enforces bcrypt-compatible password bounds.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return errors.New("password must be at most 72 characters")
	}
	return nil
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
