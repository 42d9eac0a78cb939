package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "upcache/internal/errors"
	"upcache/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// GetAccounts lists every account, from the cache when possible.
// @Summary     List accounts
// @Description List all accounts, served from the cache unless it is empty or bypassed
// @Tags        accounts
// @Produce     json
// @Param       bypass_cache query bool false "Force a refresh from the bank API"
// @Success     200 {array} models.Account "Accounts"
// @Failure     401 {object} ErrorResponse "Invalid access token"
// @Failure     502 {object} ErrorResponse "Bank API failure"
// @Router      /accounts [get]
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	bypassCache := c.Query("bypass_cache") == "true"

	accounts, err := h.accountService.GetAccounts(c.Request.Context(), bypassCache)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// GetAccount fetches one account by id.
// @Summary     Get an account
// @Description Get a single account by id, refreshing stale cache entries from the bank API
// @Tags        accounts
// @Produce     json
// @Param       id path string true "Account ID"
// @Success     200 {object} models.Account "Account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.accountService.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if account == nil {
		respondWithError(c, apperrors.ErrAccountNotFound)
		return
	}

	c.JSON(http.StatusOK, account)
}
