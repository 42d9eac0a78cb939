package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "upcache/internal/errors"
	"upcache/internal/models"
	"upcache/internal/pagination"
	"upcache/internal/services"
)

// TransactionHandler handles transaction cache requests.
type TransactionHandler struct {
	cacheService services.TransactionCacheServicer
	queryService services.TransactionQueryServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(cacheService services.TransactionCacheServicer, queryService services.TransactionQueryServicer) *TransactionHandler {
	return &TransactionHandler{cacheService: cacheService, queryService: queryService}
}

// transactionQueryRequest carries the filter parameters for cache queries.
type transactionQueryRequest struct {
	AccountID              string   `form:"account_id"`
	ExcludeUncategorisable bool     `form:"exclude_uncategorisable"`
	Types                  []string `form:"type" binding:"omitempty,dive,transaction_type"`
}

// criteria converts the bound request plus parsed date bounds into query criteria.
func (r *transactionQueryRequest) criteria(since, until *time.Time) *models.TransactionQueryCriteria {
	criteria := &models.TransactionQueryCriteria{
		Since:                              since,
		Until:                              until,
		ExcludeUncategorisableTransactions: r.ExcludeUncategorisable,
	}
	if r.AccountID != "" {
		criteria.AccountID = &r.AccountID
	}
	for _, t := range r.Types {
		criteria.TransactionTypes = append(criteria.TransactionTypes, models.TransactionType(t))
	}
	return criteria
}

// cacheTransactionsRequest carries the optional window for a cache run.
type cacheTransactionsRequest struct {
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetTransactions lists cached transactions.
// @Summary     List cached transactions
// @Description List cached transactions matching the filters, newest first
// @Tags        transactions
// @Produce     json
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(25)
// @Param       account_id query string false "Filter to one account"
// @Param       since query string false "Inclusive lower bound, RFC 3339"
// @Param       until query string false "Inclusive upper bound, RFC 3339"
// @Param       type query []string false "Inferred transaction types to include" collectionFormat(multi)
// @Param       exclude_uncategorisable query bool false "Drop transactions that cannot carry a category"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var req transactionQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	since, err := parseTimeParam(c, "since")
	if err != nil {
		respondWithError(c, err)
		return
	}
	until, err := parseTimeParam(c, "until")
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp, err := h.queryService.GetTransactions(req.criteria(since, until), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CacheTransactions runs a cache ingestion.
// @Summary     Cache transactions
// @Description Pull every transaction in the window from the bank API into the cache and return the first refreshed page
// @Tags        transactions
// @Produce     json
// @Param       since query string false "Inclusive lower bound, RFC 3339"
// @Param       until query string false "Inclusive upper bound, RFC 3339"
// @Param       page_size query int false "Bank API page size" default(25)
// @Success     200 {object} pagination.PageResponse[models.Transaction] "First page of the refreshed cache"
// @Failure     401 {object} ErrorResponse "Invalid access token"
// @Failure     502 {object} ErrorResponse "Bank API failure"
// @Router      /transactions/cache [post]
func (h *TransactionHandler) CacheTransactions(c *gin.Context) {
	var req cacheTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	since, err := parseTimeParam(c, "since")
	if err != nil {
		respondWithError(c, err)
		return
	}
	until, err := parseTimeParam(c, "until")
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp, err := h.cacheService.CacheTransactions(c.Request.Context(), c.Query("account_id"), since, until, req.PageSize)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCacheStats reports the state of the transaction cache.
// @Summary     Transaction cache statistics
// @Description Report cache size, date range, and per-category transaction counts
// @Tags        transactions
// @Produce     json
// @Success     200 {object} models.TransactionCacheStats "Cache statistics"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/stats [get]
func (h *TransactionHandler) GetCacheStats(c *gin.Context) {
	stats, err := h.queryService.GetTransactionCacheStats()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetDailySums reports summed transaction amounts per calendar day.
// @Summary     Daily transaction sums
// @Description Sum transaction amounts in base units per calendar day for the matching transactions
// @Tags        transactions
// @Produce     json
// @Param       account_id query string false "Filter to one account"
// @Param       since query string false "Inclusive lower bound, RFC 3339"
// @Param       until query string false "Inclusive upper bound, RFC 3339"
// @Param       type query []string false "Inferred transaction types to include" collectionFormat(multi)
// @Param       exclude_uncategorisable query bool false "Drop transactions that cannot carry a category"
// @Success     200 {array} models.TransactionDateAggregate "Daily sums"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions/aggregates/daily [get]
func (h *TransactionHandler) GetDailySums(c *gin.Context) {
	var req transactionQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	since, err := parseTimeParam(c, "since")
	if err != nil {
		respondWithError(c, err)
		return
	}
	until, err := parseTimeParam(c, "until")
	if err != nil {
		respondWithError(c, err)
		return
	}

	aggregates, err := h.queryService.GetTransactionSumsByDay(req.criteria(since, until))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregates)
}
