package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "upcache/internal/errors"
	"upcache/internal/models"
	"upcache/internal/services"
)

// --- mock account service ---

type mockAccountService struct {
	getAccountsFn func(ctx context.Context, bypassCache bool) ([]models.Account, error)
	getAccountFn  func(ctx context.Context, accountID string) (*models.Account, error)
}

func (m *mockAccountService) GetAccounts(ctx context.Context, bypassCache bool) ([]models.Account, error) {
	if m.getAccountsFn != nil {
		return m.getAccountsFn(ctx, bypassCache)
	}
	return []models.Account{}, nil
}

func (m *mockAccountService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	if m.getAccountFn != nil {
		return m.getAccountFn(ctx, accountID)
	}
	return nil, nil
}

var _ services.AccountServicer = (*mockAccountService)(nil)

func setupAccountRouter(handler *AccountHandler) *gin.Engine {
	r := gin.New()
	r.GET("/accounts", handler.GetAccounts)
	r.GET("/accounts/:id", handler.GetAccount)
	return r
}

// --- tests ---

func TestAccountHandler_GetAccounts(t *testing.T) {
	t.Run("returns 200 with accounts", func(t *testing.T) {
		svc := &mockAccountService{
			getAccountsFn: func(_ context.Context, bypassCache bool) ([]models.Account, error) {
				if bypassCache {
					t.Error("expected cache not to be bypassed by default")
				}
				return []models.Account{{ID: "a1", DisplayName: "Spending"}}, nil
			},
		}
		handler := NewAccountHandler(svc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("bypass_cache query forces refresh", func(t *testing.T) {
		var bypassed bool
		svc := &mockAccountService{
			getAccountsFn: func(_ context.Context, bypassCache bool) ([]models.Account, error) {
				bypassed = bypassCache
				return []models.Account{}, nil
			},
		}
		handler := NewAccountHandler(svc)
		r := setupAccountRouter(handler)

		doRequest(r, "GET", "/accounts?bypass_cache=true", "")

		if !bypassed {
			t.Error("expected bypass_cache=true to reach the service")
		}
	})

	t.Run("returns 401 on missing token", func(t *testing.T) {
		svc := &mockAccountService{
			getAccountsFn: func(_ context.Context, _ bool) ([]models.Account, error) {
				return nil, apperrors.ErrMissingAccessToken
			},
		}
		handler := NewAccountHandler(svc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "MISSING_ACCESS_TOKEN")
	})
}

func TestAccountHandler_GetAccount(t *testing.T) {
	t.Run("returns 200 with account", func(t *testing.T) {
		svc := &mockAccountService{
			getAccountFn: func(_ context.Context, accountID string) (*models.Account, error) {
				return &models.Account{ID: accountID, DisplayName: "Spending"}, nil
			},
		}
		handler := NewAccountHandler(svc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts/a1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["id"] != "a1" {
			t.Errorf("expected account a1, got %v", result["id"])
		}
	})

	t.Run("returns 404 when account does not exist anywhere", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_NOT_FOUND")
	})
}
