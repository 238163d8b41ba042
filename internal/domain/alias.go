package domain

import "time"

// Alias represents a disposable email address that forwards to the
// owner's real address. The alias address is unique across the system
// and serves as the natural key for delete and copy operations; the ID
// is an opaque identifier assigned at creation and never mutated.
type Alias struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string    `json:"userId" gorm:"type:varchar(36);index;not null"`
	AliasAddress  string    `json:"aliasAddress" gorm:"type:varchar(255);uniqueIndex"`
	ForwardTarget string    `json:"forwardTarget" gorm:"type:varchar(255)"`
	CreatedAt     time.Time `json:"createdAt"`
	IsActive      bool      `json:"isActive"`
}
