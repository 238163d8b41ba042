package storage

import (
	"errors"

	"github.com/govindup63/Ghstmail.me/internal/domain"
)

var (
	// ErrAliasNotFound is returned when no alias matches the lookup.
	ErrAliasNotFound = errors.New("alias not found")
	// ErrAliasExists is returned when the alias address is already taken.
	ErrAliasExists = errors.New("alias already exists")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = errors.New("email already exists")
)

// AliasRepository defines alias persistence operations. ListAliasesByUserID
// returns aliases in creation order; that order is the one the API hands
// to clients and clients display verbatim.
type AliasRepository interface {
	SaveAlias(alias *domain.Alias) error
	GetAlias(aliasID string) (*domain.Alias, error)
	GetAliasByAddress(address string) (*domain.Alias, error)
	ListAliasesByUserID(userID string) ([]*domain.Alias, error)
	CountAliasesByUserID(userID string) (int, error)
	DeleteAlias(aliasID string) error
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	CreateUser(user *domain.User) error
	GetUserByID(id string) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	UpdateUser(user *domain.User) error
	UpdateLastLogin(userID string) error
}

// Store aggregates all repositories plus a liveness probe.
type Store interface {
	AliasRepository
	UserRepository
	Health() error
}
