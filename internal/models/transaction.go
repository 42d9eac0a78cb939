package models

import "time"

// TransactionStatus is the processing status of a transaction.
type TransactionStatus string

const (
	TransactionStatusHeld    TransactionStatus = "HELD"
	TransactionStatusSettled TransactionStatus = "SETTLED"
)

// TransactionType is the semantic type inferred from a transaction's
// description at ingestion time. It is not supplied by the Up API.
type TransactionType string

const (
	TransactionTypeTransaction TransactionType = "Transaction"
	TransactionTypeTransfer    TransactionType = "Transfer"
	TransactionTypeCover       TransactionType = "Cover"
	TransactionTypeForward     TransactionType = "Forward"
	TransactionTypeInterest    TransactionType = "Interest"
	TransactionTypeBonus       TransactionType = "Bonus"
)

// TagList is an ordered list of tag ids attached to a transaction.
type TagList []string

// Transaction is a cached Up transaction. Rows are created in bulk during a
// cache run and only change on full re-ingestion; the same id always upserts.
//
// Category and parent category are denormalized copies resolved at ingestion
// time, not live foreign keys: CategoryID/CategoryName hold whatever the
// resolver produced, including stubs with an empty name.
type Transaction struct {
	ID        string            `gorm:"primaryKey" json:"id"`
	AccountID *string           `gorm:"index" json:"account_id,omitempty"`
	Status    TransactionStatus `gorm:"not null" json:"status"`

	// RawText is the unprocessed transaction text, useful for reconciliation.
	RawText *string `json:"raw_text,omitempty"`
	// Description is usually the merchant name, and drives InferredType.
	Description string  `gorm:"not null" json:"description"`
	Message     *string `json:"message,omitempty"`

	IsCategorizable bool `json:"is_categorizable"`

	HoldInfo *HoldInfo `gorm:"serializer:json" json:"hold_info,omitempty"`
	RoundUp  *RoundUp  `gorm:"serializer:json" json:"round_up,omitempty"`
	Cashback *Cashback `gorm:"serializer:json" json:"cashback,omitempty"`

	// Amount is flattened into columns so aggregate queries can sum base
	// units without JSON extraction.
	Amount        MoneyObject  `gorm:"embedded;embeddedPrefix:amount_" json:"amount"`
	ForeignAmount *MoneyObject `gorm:"serializer:json" json:"foreign_amount,omitempty"`

	CardPurchaseMethod *CardPurchaseMethod `gorm:"serializer:json" json:"card_purchase_method,omitempty"`

	SettledAt *time.Time `json:"settled_at,omitempty"`
	// CreatedAt is the instant the API first encountered the transaction.
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`

	CategoryID         *string `gorm:"index" json:"category_id,omitempty"`
	CategoryName       *string `json:"category_name,omitempty"`
	ParentCategoryID   *string `json:"parent_category_id,omitempty"`
	ParentCategoryName *string `json:"parent_category_name,omitempty"`

	Tags              TagList `gorm:"serializer:json" json:"tags"`
	TransferAccountID *string `json:"transfer_account_id,omitempty"`

	// InferredType is computed once at ingestion from Description and stored;
	// queries never recompute it.
	InferredType TransactionType `gorm:"not null;index" json:"inferred_type"`
}
