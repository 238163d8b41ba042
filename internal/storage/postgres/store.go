package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/govindup63/Ghstmail.me/internal/domain"
	"github.com/govindup63/Ghstmail.me/internal/storage"
)

// Store is the PostgreSQL storage backend, built on GORM.
type Store struct {
	db *gorm.DB
}

// NewStore opens a PostgreSQL connection and configures the pool.
// Callers run Migrate before first use.
func NewStore(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime time.Duration) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Migrate creates or updates the schema.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&domain.User{},
		&domain.Alias{},
	)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health pings the database.
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// ========== Alias Repository ==========

func (s *Store) SaveAlias(alias *domain.Alias) error {
	var existing domain.Alias
	err := s.db.Where("alias_address = ?", alias.AliasAddress).First(&existing).Error
	if err == nil && existing.ID != alias.ID {
		return storage.ErrAliasExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.Save(alias).Error
}

func (s *Store) GetAlias(aliasID string) (*domain.Alias, error) {
	var alias domain.Alias
	if err := s.db.First(&alias, "id = ?", aliasID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrAliasNotFound
		}
		return nil, err
	}
	return &alias, nil
}

func (s *Store) GetAliasByAddress(address string) (*domain.Alias, error) {
	var alias domain.Alias
	err := s.db.First(&alias, "alias_address = ?", strings.ToLower(address)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrAliasNotFound
		}
		return nil, err
	}
	return &alias, nil
}

func (s *Store) ListAliasesByUserID(userID string) ([]*domain.Alias, error) {
	var aliases []*domain.Alias
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&aliases).Error
	if err != nil {
		return nil, err
	}
	return aliases, nil
}

func (s *Store) CountAliasesByUserID(userID string) (int, error) {
	var count int64
	err := s.db.Model(&domain.Alias{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

func (s *Store) DeleteAlias(aliasID string) error {
	result := s.db.Delete(&domain.Alias{}, "id = ?", aliasID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrAliasNotFound
	}
	return nil
}

// ========== User Repository ==========

func (s *Store) CreateUser(user *domain.User) error {
	var existing domain.User
	err := s.db.Where("email = ?", strings.ToLower(user.Email)).First(&existing).Error
	if err == nil {
		return storage.ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.Create(user).Error
}

func (s *Store) GetUserByID(id string) (*domain.User, error) {
	var user domain.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := s.db.First(&user, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) UpdateUser(user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	result := s.db.Save(user)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (s *Store) UpdateLastLogin(userID string) error {
	now := time.Now().UTC()
	result := s.db.Model(&domain.User{}).Where("id = ?", userID).Update("last_login_at", &now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}
