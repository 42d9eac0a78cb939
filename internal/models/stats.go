package models

import "time"

// Category ids used in CategoryStat rows for transactions without a resolved
// category, split by whether the transaction could have carried one.
const (
	CategoryStatUncategorisable = "uncategorisable"
	CategoryStatUncategorised   = "uncategorised"
)

// CategoryStat is a per-category transaction count.
type CategoryStat struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Count      int64  `json:"count"`
}

// TransactionCacheStats summarizes the state of the transaction cache.
// The date fields are nil when the cache is empty.
type TransactionCacheStats struct {
	Count                     int64          `json:"count"`
	MostRecentTransactionDate *time.Time     `json:"most_recent_transaction_date,omitempty"`
	FirstTransactionDate      *time.Time     `json:"first_transaction_date,omitempty"`
	CategoryStats             []CategoryStat `json:"category_stats"`
}

// TransactionDateAggregate is the summed amount of transactions for one
// calendar day. Date is formatted YYYY-MM-DD.
type TransactionDateAggregate struct {
	Date string `json:"date"`
	// Total is in the smallest currency unit, summed over amount base units.
	Total int64 `json:"total"`
}
