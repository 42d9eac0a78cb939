package models

import "time"

// TransactionQueryCriteria narrows transaction queries. The zero value
// matches every cached transaction.
type TransactionQueryCriteria struct {
	// AccountID filters to an exact account when non-nil.
	AccountID *string
	// Since and Until are inclusive bounds on CreatedAt. Both are converted
	// to UTC before comparison.
	Since *time.Time
	Until *time.Time
	// ExcludeUncategorisableTransactions drops transactions that cannot carry
	// a category (covers, transfers between own accounts, and similar).
	ExcludeUncategorisableTransactions bool
	// TransactionTypes keeps only the listed inferred types. Empty means no
	// type filter.
	TransactionTypes []TransactionType
}
