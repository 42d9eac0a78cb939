package services

import (
	"gorm.io/gorm"

	apperrors "upcache/internal/errors"
	"upcache/internal/logger"
	"upcache/internal/models"
	"upcache/internal/pagination"
)

// transactionQueryService serves filtered and aggregated views of the
// transaction cache. It never talks to the Up API.
type transactionQueryService struct {
	db *gorm.DB
}

// NewTransactionQueryService creates a new TransactionQueryServicer.
func NewTransactionQueryService(db *gorm.DB) TransactionQueryServicer {
	return &transactionQueryService{db: db}
}

// criteriaScope translates query criteria into WHERE clauses. A nil criteria
// matches everything.
func criteriaScope(criteria *models.TransactionQueryCriteria) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if criteria == nil {
			return db
		}
		if criteria.AccountID != nil && *criteria.AccountID != "" {
			db = db.Where("account_id = ?", *criteria.AccountID)
		}
		if criteria.Since != nil {
			db = db.Where("created_at >= ?", criteria.Since.UTC())
		}
		if criteria.Until != nil {
			db = db.Where("created_at <= ?", criteria.Until.UTC())
		}
		if criteria.ExcludeUncategorisableTransactions {
			db = db.Where("is_categorizable = ?", true)
		}
		if len(criteria.TransactionTypes) > 0 {
			db = db.Where("inferred_type IN (?)", criteria.TransactionTypes)
		}
		return db
	}
}

// GetTransactions returns one page of cached transactions matching the
// criteria, newest first.
func (s *transactionQueryService) GetTransactions(criteria *models.TransactionQueryCriteria, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Transaction{}).Scopes(criteriaScope(criteria)).Count(&total).Error; err != nil {
		logger.Get().Errorw("failed to count transactions", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	err := s.db.Scopes(criteriaScope(criteria), pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		logger.Get().Errorw("failed to query transactions", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(transactions, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetTransactionCacheStats reports the size and date range of the cache plus
// per-category counts. Transactions that cannot carry a category are bucketed
// as "uncategorisable"; categorizable transactions without one are bucketed
// as "uncategorised".
func (s *transactionQueryService) GetTransactionCacheStats() (*models.TransactionCacheStats, error) {
	var count int64
	if err := s.db.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		logger.Get().Errorw("failed to count transaction cache", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &models.TransactionCacheStats{
		Count:         count,
		CategoryStats: []models.CategoryStat{},
	}
	if count == 0 {
		return stats, nil
	}

	// The bounds go through model queries rather than MIN/MAX aggregates so
	// each driver applies its own time conversion.
	var oldest, newest models.Transaction
	if err := s.db.Model(&models.Transaction{}).Order("created_at ASC").First(&oldest).Error; err != nil {
		logger.Get().Errorw("failed to load oldest transaction", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Transaction{}).Order("created_at DESC").First(&newest).Error; err != nil {
		logger.Get().Errorw("failed to load newest transaction", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	stats.FirstTransactionDate = &oldest.CreatedAt
	stats.MostRecentTransactionDate = &newest.CreatedAt

	// A resolved category always wins its own bucket; the categorizable flag
	// only splits the rows that lack one.
	rows := []models.CategoryStat{}
	err := s.db.Raw(`
		SELECT
			CASE
				WHEN t.category_id IS NULL AND t.is_categorizable = ? THEN ?
				WHEN t.category_id IS NULL THEN ?
				ELSE t.category_id
			END AS category_id,
			CASE
				WHEN t.category_id IS NULL AND t.is_categorizable = ? THEN ?
				WHEN t.category_id IS NULL THEN ?
				ELSE COALESCE(c.name, t.category_id)
			END AS name,
			COUNT(*) AS count
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		GROUP BY 1, 2
		ORDER BY count DESC, category_id ASC`,
		false, models.CategoryStatUncategorisable, models.CategoryStatUncategorised,
		false, models.CategoryStatUncategorisable, models.CategoryStatUncategorised,
	).Scan(&rows).Error
	if err != nil {
		logger.Get().Errorw("failed to aggregate category stats", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats.CategoryStats = rows
	return stats, nil
}

// GetTransactionSumsByDay sums transaction amounts in base units per calendar
// day for the matching transactions, oldest day first.
func (s *transactionQueryService) GetTransactionSumsByDay(criteria *models.TransactionQueryCriteria) ([]models.TransactionDateAggregate, error) {
	// Day truncation has no portable spelling shared by the production and
	// test engines.
	dateExpr := "to_char(created_at, 'YYYY-MM-DD')"
	if s.db.Dialector.Name() == "sqlite" {
		dateExpr = "strftime('%Y-%m-%d', created_at)"
	}

	aggregates := []models.TransactionDateAggregate{}
	err := s.db.Model(&models.Transaction{}).
		Scopes(criteriaScope(criteria)).
		Select(dateExpr + " AS date, SUM(amount_value_in_base_units) AS total").
		Group("date").
		Order("date ASC").
		Scan(&aggregates).Error
	if err != nil {
		logger.Get().Errorw("failed to aggregate transaction sums", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return aggregates, nil
}
