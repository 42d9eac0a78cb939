package models

import "time"

// AccountType represents the kind of account Up exposes.
type AccountType string

const (
	AccountTypeSaver         AccountType = "SAVER"
	AccountTypeTransactional AccountType = "TRANSACTIONAL"
)

// OwnershipType represents who owns an account.
type OwnershipType string

const (
	OwnershipTypeIndividual OwnershipType = "INDIVIDUAL"
	OwnershipTypeJoint      OwnershipType = "JOINT"
)

// Account is a cached mirror of an Up account. The ID is assigned by the
// remote API and stable; re-caching the same account overwrites the row.
type Account struct {
	ID            string        `gorm:"primaryKey" json:"id"`
	DisplayName   string        `gorm:"not null" json:"display_name"`
	AccountType   AccountType   `gorm:"not null;index" json:"account_type"`
	OwnershipType OwnershipType `gorm:"not null" json:"ownership_type"`
	Balance       MoneyObject   `gorm:"serializer:json" json:"balance"`
	// CreatedAt is the creation instant reported by the API, not the cache.
	CreatedAt time.Time `json:"created_at"`
	// ModifiedAt is cache-local and set on every write. It drives freshness
	// checks for single-account lookups.
	ModifiedAt time.Time `gorm:"autoUpdateTime" json:"modified_at"`
}
