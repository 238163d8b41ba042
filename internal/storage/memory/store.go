package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/govindup63/Ghstmail.me/internal/domain"
	"github.com/govindup63/Ghstmail.me/internal/storage"
)

// Store keeps aliases and users in memory, for development and tests.
type Store struct {
	mu         sync.RWMutex
	aliases    map[string]*domain.Alias // aliasID -> alias
	byAddress  map[string]string        // alias address -> aliasID
	aliasOrder []string                 // aliasIDs in creation order
	users      map[string]*domain.User  // userID -> user
	byEmail    map[string]string        // email -> userID
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		aliases:   make(map[string]*domain.Alias),
		byAddress: make(map[string]string),
		users:     make(map[string]*domain.User),
		byEmail:   make(map[string]string),
	}
}

// ========== Alias Repository ==========

// SaveAlias inserts or updates an alias. The address must not belong to
// a different alias.
func (s *Store) SaveAlias(alias *domain.Alias) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, ok := s.byAddress[alias.AliasAddress]; ok && existingID != alias.ID {
		return storage.ErrAliasExists
	}

	if _, ok := s.aliases[alias.ID]; !ok {
		s.aliasOrder = append(s.aliasOrder, alias.ID)
	}
	s.aliases[alias.ID] = alias
	s.byAddress[alias.AliasAddress] = alias.ID
	return nil
}

// GetAlias returns the alias with the given ID.
func (s *Store) GetAlias(aliasID string) (*domain.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alias, ok := s.aliases[aliasID]
	if !ok {
		return nil, storage.ErrAliasNotFound
	}
	return alias, nil
}

// GetAliasByAddress returns the alias with the given address.
func (s *Store) GetAliasByAddress(address string) (*domain.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	aliasID, ok := s.byAddress[strings.ToLower(address)]
	if !ok {
		return nil, storage.ErrAliasNotFound
	}
	alias, ok := s.aliases[aliasID]
	if !ok {
		return nil, storage.ErrAliasNotFound
	}
	return alias, nil
}

// ListAliasesByUserID returns the user's aliases in creation order.
func (s *Store) ListAliasesByUserID(userID string) ([]*domain.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Alias, 0)
	for _, id := range s.aliasOrder {
		alias, ok := s.aliases[id]
		if ok && alias.UserID == userID {
			result = append(result, alias)
		}
	}
	return result, nil
}

// CountAliasesByUserID returns the number of aliases the user holds.
func (s *Store) CountAliasesByUserID(userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, alias := range s.aliases {
		if alias.UserID == userID {
			count++
		}
	}
	return count, nil
}

// DeleteAlias removes the alias with the given ID.
func (s *Store) DeleteAlias(aliasID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alias, ok := s.aliases[aliasID]
	if !ok {
		return storage.ErrAliasNotFound
	}
	delete(s.aliases, aliasID)
	delete(s.byAddress, alias.AliasAddress)
	for i, id := range s.aliasOrder {
		if id == aliasID {
			s.aliasOrder = append(s.aliasOrder[:i], s.aliasOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ========== User Repository ==========

// CreateUser inserts a new user. The email must be unused.
func (s *Store) CreateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := s.byEmail[email]; ok {
		return storage.ErrEmailExists
	}
	s.users[user.ID] = user
	s.byEmail[email] = user.ID
	return nil
}

// GetUserByID returns the user with the given ID.
func (s *Store) GetUserByID(id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

// GetUserByEmail returns the user registered under the given email.
func (s *Store) GetUserByEmail(email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	user, ok := s.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

// UpdateUser replaces the stored user.
func (s *Store) UpdateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return storage.ErrUserNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = user
	return nil
}

// UpdateLastLogin stamps the user's last login time.
func (s *Store) UpdateLastLogin(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	now := time.Now().UTC()
	user.LastLoginAt = &now
	return nil
}

// Health reports the store as always available.
func (s *Store) Health() error {
	return nil
}

// Snapshot returns all aliases sorted by creation time, for debugging.
func (s *Store) Snapshot() []domain.Alias {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Alias, 0, len(s.aliases))
	for _, alias := range s.aliases {
		out = append(out, *alias)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
