package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "upcache/internal/errors"
	"upcache/internal/logger"
	"upcache/internal/models"
	"upcache/internal/upbank"
)

// accountFreshnessWindow is how long a cached account stays valid for single
// lookups. A cache entry is fresh iff now - ModifiedAt < this window.
const accountFreshnessWindow = 24 * time.Hour

// accountService mirrors Up accounts into the cache.
type accountService struct {
	db     *gorm.DB
	api    BankAPI
	events *Events
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, api BankAPI, events *Events) AccountServicer {
	return &accountService{db: db, api: api, events: events}
}

// GetAccounts returns all accounts, ordered by account type descending then
// id ascending. The cache is used whenever it holds at least one account and
// bypassCache is false; otherwise every account is fetched from the API and
// persisted before being returned.
func (s *accountService) GetAccounts(ctx context.Context, bypassCache bool) ([]models.Account, error) {
	log := logger.Get()
	log.Info("Getting accounts")
	s.events.emitAccountsUpdating()

	if !bypassCache {
		accounts, err := s.loadAccountsFromCache(ctx)
		if err != nil {
			return nil, err
		}
		if len(accounts) != 0 {
			log.Infow("Loaded accounts from cache", "count", len(accounts))
			s.events.emitAccountsUpdated(accounts)
			return accounts, nil
		}
	}

	accounts, err := s.fetchAccountsFromAPI(ctx)
	if err != nil {
		return nil, err
	}

	if len(accounts) > 0 {
		log.Infow("Saving accounts to cache", "count", len(accounts))
		if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&accounts).Error; err != nil {
			log.Errorw("failed to cache accounts", "count", len(accounts), "error", err)
			return nil, apperrors.Wrap(apperrors.ErrCacheWrite, err)
		}
	}

	s.events.emitAccountsUpdated(accounts)
	return accounts, nil
}

// GetAccount returns a single account. The cache satisfies the lookup only
// while the entry is fresh; on a miss or a stale entry the account is fetched
// from the API and re-persisted. Returns nil without error when the account
// exists neither in the cache nor remotely.
func (s *accountService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	if accountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account id is required")
	}

	var cached models.Account
	freshAfter := time.Now().UTC().Add(-accountFreshnessWindow)
	err := s.db.WithContext(ctx).
		Where("id = ? AND modified_at > ?", accountID, freshAfter).
		First(&cached).Error
	switch {
	case err == nil:
		return &cached, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp, err := s.api.GetAccount(ctx, accountID)
	if err != nil {
		var apiErr *upbank.APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			return nil, nil
		}
		return nil, err
	}

	account := accountFromResource(resp.Data)
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(account).Error; err != nil {
		logger.Get().Errorw("failed to cache account", "account_id", accountID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrCacheWrite, err)
	}
	return account, nil
}

// loadAccountsFromCache returns every cached account in display order.
func (s *accountService) loadAccountsFromCache(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.WithContext(ctx).
		Order("account_type DESC").
		Order("id ASC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// fetchAccountsFromAPI follows next-page cursors until the API reports no
// more accounts.
func (s *accountService) fetchAccountsFromAPI(ctx context.Context) ([]models.Account, error) {
	log := logger.Get()
	log.Info("Retrieving accounts directly from the API")

	var accounts []models.Account
	cursor := ""

	for {
		resp, err := s.api.GetAccounts(ctx, cursor)
		if err != nil {
			return nil, err
		}

		for _, raw := range resp.Data {
			accounts = append(accounts, *accountFromResource(raw))
		}

		if resp.Links.Next == "" {
			break
		}
		log.Debug("Following next page of accounts")
		cursor = resp.Links.Next
	}

	log.Infow("Retrieved accounts from the API", "count", len(accounts))
	return accounts, nil
}

// accountFromResource maps an API account resource to a cache document. All
// attribute values are copied verbatim.
func accountFromResource(raw upbank.AccountResource) *models.Account {
	return &models.Account{
		ID:            raw.ID,
		DisplayName:   raw.Attributes.DisplayName,
		AccountType:   raw.Attributes.AccountType,
		OwnershipType: raw.Attributes.OwnershipType,
		Balance:       moneyFromAPI(raw.Attributes.Balance),
		CreatedAt:     raw.Attributes.CreatedAt,
	}
}
