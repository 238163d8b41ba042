package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/govindup63/Ghstmail.me/internal/config"
	"github.com/govindup63/Ghstmail.me/internal/domain"
	"github.com/govindup63/Ghstmail.me/internal/storage"
)

// AliasService implements the alias lifecycle: minting disposable
// addresses, listing them in creation order, and deleting them by
// address.
type AliasService struct {
	aliasRepo  storage.AliasRepository
	userRepo   storage.UserRepository
	cfg        *config.Config
	invalidate func(address string)
}

// NewAliasService creates the alias service.
func NewAliasService(aliasRepo storage.AliasRepository, userRepo storage.UserRepository, cfg *config.Config) *AliasService {
	return &AliasService{
		aliasRepo: aliasRepo,
		userRepo:  userRepo,
		cfg:       cfg,
	}
}

// Create mints a new alias for the user. The forward target is the
// user's registered email; the local part is random under the service
// domain. Retries on the rare collision.
func (s *AliasService) Create(userID string) (*domain.Alias, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	count, err := s.aliasRepo.CountAliasesByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count aliases: %w", err)
	}
	if count >= s.cfg.Alias.MaxPerUser {
		return nil, fmt.Errorf("alias limit reached (%d)", s.cfg.Alias.MaxPerUser)
	}

	for attempt := 0; attempt < 5; attempt++ {
		alias := &domain.Alias{
			ID:            uuid.NewString(),
			UserID:        userID,
			AliasAddress:  fmt.Sprintf("%s@%s", randomLocalPart(), s.cfg.Alias.Domain),
			ForwardTarget: user.Email,
			CreatedAt:     time.Now().UTC(),
			IsActive:      true,
		}
		err := s.aliasRepo.SaveAlias(alias)
		if err == nil {
			return alias, nil
		}
		if err != storage.ErrAliasExists {
			return nil, fmt.Errorf("failed to save alias: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to generate a unique alias address")
}

// List returns the user's aliases in creation order. An account with no
// aliases gets an empty slice, not nil.
func (s *AliasService) List(userID string) ([]*domain.Alias, error) {
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	aliases, err := s.aliasRepo.ListAliasesByUserID(userID)
	if err != nil {
		return nil, err
	}
	if aliases == nil {
		aliases = []*domain.Alias{}
	}
	return aliases, nil
}

// SetCacheInvalidation installs a hook that is called with the address
// of every deleted alias, so resolve caches drop it immediately.
func (s *AliasService) SetCacheInvalidation(fn func(address string)) {
	s.invalidate = fn
}

// Delete removes the alias with the given address. The alias must
// belong to the requesting user.
func (s *AliasService) Delete(userID, address string) error {
	alias, err := s.aliasRepo.GetAliasByAddress(normalizeAddress(address))
	if err != nil {
		return fmt.Errorf("alias not found: %w", err)
	}
	if alias.UserID != userID {
		return fmt.Errorf("alias does not belong to this user")
	}
	if err := s.aliasRepo.DeleteAlias(alias.ID); err != nil {
		return err
	}
	if s.invalidate != nil {
		s.invalidate(alias.AliasAddress)
	}
	return nil
}

// Resolve maps an alias address to its forward target for mail
// delivery. Inactive and unknown aliases resolve to an error.
func (s *AliasService) Resolve(address string) (*domain.Alias, error) {
	alias, err := s.aliasRepo.GetAliasByAddress(normalizeAddress(address))
	if err != nil {
		return nil, err
	}
	if !alias.IsActive {
		return nil, storage.ErrAliasNotFound
	}
	return alias, nil
}

// randomLocalPart returns a short random token, e.g. "f3a9c1d27b".
func randomLocalPart() string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable for address minting;
		// fall back to a uuid fragment.
		return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	}
	return hex.EncodeToString(buf)
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
