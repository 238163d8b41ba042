package domain

import "time"

// User represents a registered account. The email is the real address
// that aliases forward to.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255)"`
	IsActive     bool       `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}
