package services

import (
	"context"
	"time"

	"upcache/internal/models"
	"upcache/internal/pagination"
	"upcache/internal/upbank"
)

// BankAPI is the slice of the Up API the services consume. *upbank.Client
// satisfies it; tests substitute a scripted fake.
type BankAPI interface {
	GetAccounts(ctx context.Context, cursor string) (*upbank.AccountsResponse, error)
	GetAccount(ctx context.Context, accountID string) (*upbank.AccountResponse, error)
	GetTransactions(ctx context.Context, since, until *time.Time, pageSize int, cursor string) (*upbank.TransactionsResponse, error)
	GetCategories(ctx context.Context, cursor string) (*upbank.CategoriesResponse, error)
}

// AccountServicer mirrors accounts from the Up API into the cache.
type AccountServicer interface {
	GetAccounts(ctx context.Context, bypassCache bool) ([]models.Account, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
}

// CategoryServicer loads and caches the category taxonomy.
type CategoryServicer interface {
	GetCategories(ctx context.Context, bypassCache bool) ([]models.Category, error)
	LookupCategory(ref *upbank.ResourceIdentifier, lookup map[string]models.Category) *models.Category
}

// TransactionCacheServicer ingests transactions from the Up API into the cache.
type TransactionCacheServicer interface {
	// CacheTransactions pulls every transaction in the window into the cache
	// and returns the first page of the refreshed cache.
	CacheTransactions(ctx context.Context, accountID string, since, until *time.Time, pageSize int) (*pagination.PageResponse[models.Transaction], error)
}

// TransactionQueryServicer serves filtered, paginated, and aggregated views
// of the transaction cache.
type TransactionQueryServicer interface {
	GetTransactions(criteria *models.TransactionQueryCriteria, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionCacheStats() (*models.TransactionCacheStats, error)
	GetTransactionSumsByDay(criteria *models.TransactionQueryCriteria) ([]models.TransactionDateAggregate, error)
}
