package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "upcache/internal/errors"
	"upcache/internal/logger"
	"upcache/internal/models"
	"upcache/internal/pagination"
	"upcache/internal/upbank"
)

// longDateFormat renders instants the way cache progress messages show them,
// e.g. "Monday, 02 January, 2006".
const longDateFormat = "Monday, 02 January, 2006"

// transactionCacheService ingests transactions from the Up API into the cache.
type transactionCacheService struct {
	db         *gorm.DB
	api        BankAPI
	categories CategoryServicer
	queries    TransactionQueryServicer
	events     *Events
}

// NewTransactionCacheService creates a new TransactionCacheServicer.
func NewTransactionCacheService(
	db *gorm.DB,
	api BankAPI,
	categories CategoryServicer,
	queries TransactionQueryServicer,
	events *Events,
) TransactionCacheServicer {
	return &transactionCacheService{
		db:         db,
		api:        api,
		categories: categories,
		queries:    queries,
		events:     events,
	}
}

// CacheTransactions pulls every transaction in the requested window from the
// API, enriches each record with its resolved categories and inferred type,
// and commits the whole batch to the cache in one atomic upsert. It returns
// the first page of the refreshed cache, ordered by creation date descending.
//
// The run is all-or-nothing: a failure on any page abandons the batch with
// nothing persisted, and the error propagates to the caller after the
// finished event has fired.
//
// accountID is accepted for signature compatibility but not yet honored;
// caching always covers the whole ledger.
func (s *transactionCacheService) CacheTransactions(ctx context.Context, accountID string, since, until *time.Time, pageSize int) (result *pagination.PageResponse[models.Transaction], err error) {
	_ = accountID

	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}

	s.events.emitTransactionCacheStarted()
	defer s.events.emitTransactionCacheFinished()

	s.events.emitTransactionCacheMessage(describeCacheWindow(since, until, pageSize))

	s.events.emitTransactionCacheMessage("Retrieving categories")
	categories, err := s.categories.GetCategories(ctx, false)
	if err != nil {
		return nil, err
	}
	lookup := make(map[string]models.Category, len(categories))
	for _, category := range categories {
		lookup[category.ID] = category
	}

	transactions, err := s.fetchTransactionsFromAPI(ctx, lookup, since, until, pageSize)
	if err != nil {
		return nil, err
	}
	s.events.emitTransactionCacheMessage("All transactions loaded.")

	s.events.emitTransactionCacheMessage("Caching loaded transactions...")
	if len(transactions) > 0 {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Clauses(clause.OnConflict{UpdateAll: true}).
				CreateInBatches(&transactions, 500).Error
		})
		if err != nil {
			logger.Get().Errorw("failed to persist transaction batch", "count", len(transactions), "error", err)
			return nil, apperrors.Wrap(apperrors.ErrCacheWrite, err)
		}
	}

	s.events.emitTransactionCacheMessage(fmt.Sprintf("Cache complete! Cached %d transactions", len(transactions)))

	return s.queries.GetTransactions(nil, pagination.PageRequest{Page: 1, PageSize: pageSize})
}

// fetchTransactionsFromAPI walks the cursor chain sequentially, mapping and
// accumulating every page. Page N+1 is only requested after page N is fully
// mapped; subsequent requests carry just the cursor because the API embeds
// the original filters in it.
func (s *transactionCacheService) fetchTransactionsFromAPI(
	ctx context.Context,
	lookup map[string]models.Category,
	since, until *time.Time,
	pageSize int,
) ([]models.Transaction, error) {
	var transactions []models.Transaction
	cursor := ""

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := s.api.GetTransactions(ctx, since, until, pageSize, cursor)
		if err != nil {
			return nil, err
		}

		s.events.emitTransactionCacheMessage(fmt.Sprintf("Loaded %d transactions from the api", len(resp.Data)))

		for _, raw := range resp.Data {
			transactions = append(transactions, s.transactionFromResource(raw, lookup))
		}

		if resp.Links.Next == "" {
			return transactions, nil
		}
		s.events.emitTransactionCacheMessage("Loading next page of transactions...")
		cursor = resp.Links.Next
	}
}

// transactionFromResource maps one API transaction onto a cache document:
// attribute fields are copied verbatim, relationship ids are lifted out of
// their envelopes, categories are resolved through the lookup, and the
// inferred type is computed here, once, from the description.
func (s *transactionCacheService) transactionFromResource(raw upbank.TransactionResource, lookup map[string]models.Category) models.Transaction {
	transaction := models.Transaction{
		ID:                 raw.ID,
		Status:             raw.Attributes.Status,
		RawText:            raw.Attributes.RawText,
		Description:        raw.Attributes.Description,
		Message:            raw.Attributes.Message,
		IsCategorizable:    raw.Attributes.IsCategorizable,
		HoldInfo:           holdInfoFromAPI(raw.Attributes.HoldInfo),
		RoundUp:            roundUpFromAPI(raw.Attributes.RoundUp),
		Cashback:           cashbackFromAPI(raw.Attributes.Cashback),
		Amount:             moneyFromAPI(raw.Attributes.Amount),
		ForeignAmount:      moneyPtrFromAPI(raw.Attributes.ForeignAmount),
		CardPurchaseMethod: cardPurchaseMethodFromAPI(raw.Attributes.CardPurchaseMethod),
		SettledAt:          raw.Attributes.SettledAt,
		CreatedAt:          raw.Attributes.CreatedAt,
		Tags:               models.TagList{},
		InferredType:       InferTransactionType(raw.Attributes.Description),
	}

	if raw.Relationships.Account != nil && raw.Relationships.Account.Data != nil {
		id := raw.Relationships.Account.Data.ID
		transaction.AccountID = &id
	}
	if raw.Relationships.TransferAccount != nil && raw.Relationships.TransferAccount.Data != nil {
		id := raw.Relationships.TransferAccount.Data.ID
		transaction.TransferAccountID = &id
	}
	if raw.Relationships.Tags != nil {
		for _, tag := range raw.Relationships.Tags.Data {
			transaction.Tags = append(transaction.Tags, tag.ID)
		}
	}

	var categoryRef, parentRef *upbank.ResourceIdentifier
	if raw.Relationships.Category != nil {
		categoryRef = raw.Relationships.Category.Data
	}
	if raw.Relationships.ParentCategory != nil {
		parentRef = raw.Relationships.ParentCategory.Data
	}

	if category := s.categories.LookupCategory(categoryRef, lookup); category != nil {
		transaction.CategoryID = &category.ID
		if category.Name != "" {
			name := category.Name
			transaction.CategoryName = &name
		}
	}
	if parent := s.categories.LookupCategory(parentRef, lookup); parent != nil {
		transaction.ParentCategoryID = &parent.ID
		if parent.Name != "" {
			name := parent.Name
			transaction.ParentCategoryName = &name
		}
	}

	return transaction
}

// describeCacheWindow renders a user-friendly description of the requested
// date window. There are four variants depending on which bounds are set.
func describeCacheWindow(since, until *time.Time, pageSize int) string {
	switch {
	case since == nil && until == nil:
		return fmt.Sprintf("Loading <strong>all transactions</strong> available until the first transaction ever made across all accounts with page size of %d", pageSize)
	case since == nil:
		return fmt.Sprintf("Loading all transactions from before <strong>%s</strong> until the first transaction ever made across all accounts with page size of %d",
			until.Format(longDateFormat), pageSize)
	case until == nil:
		return fmt.Sprintf("Loading all transactions from <strong>%s</strong> until midnight, <strong>%s</strong> with page size of %d",
			since.Format(longDateFormat), time.Now().Format(longDateFormat), pageSize)
	default:
		return fmt.Sprintf("Loading all transactions from <strong>%s</strong> until <strong>%s</strong> with page size of %d",
			since.Format(longDateFormat), until.Format(longDateFormat), pageSize)
	}
}
