package services

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "upcache/internal/errors"
	"upcache/internal/logger"
	"upcache/internal/models"
	"upcache/internal/upbank"
)

// categoryService caches the Up category taxonomy.
type categoryService struct {
	db     *gorm.DB
	api    BankAPI
	events *Events
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, api BankAPI, events *Events) CategoryServicer {
	return &categoryService{db: db, api: api, events: events}
}

// GetCategories returns the category taxonomy, ordered by name, with parent
// back-references populated. The cache is used whenever it holds at least one
// category and bypassCache is false; otherwise the full taxonomy is fetched
// from the API and persisted before being returned.
func (s *categoryService) GetCategories(ctx context.Context, bypassCache bool) ([]models.Category, error) {
	s.events.emitCategoriesUpdating()

	if !bypassCache {
		var cached []models.Category
		if err := s.db.WithContext(ctx).Order("name").Find(&cached).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// An empty cache falls through to the API on every call. That only
		// happens before the first successful load, so the repeated remote
		// round trip is acceptable.
		if len(cached) != 0 {
			models.ResolveParents(cached)
			s.events.emitCategoriesUpdated(cached)
			return cached, nil
		}
	}

	categories, err := s.fetchCategoriesFromAPI(ctx)
	if err != nil {
		return nil, err
	}

	models.ResolveParents(categories)

	if len(categories) > 0 {
		if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&categories).Error; err != nil {
			logger.Get().Errorw("failed to cache categories", "count", len(categories), "error", err)
			return nil, apperrors.Wrap(apperrors.ErrCacheWrite, err)
		}
	}

	s.events.emitCategoriesUpdated(categories)
	return categories, nil
}

// fetchCategoriesFromAPI pulls the full taxonomy. The endpoint is not
// paginated today, but the cursor loop keeps this correct if that changes.
func (s *categoryService) fetchCategoriesFromAPI(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	cursor := ""

	for {
		resp, err := s.api.GetCategories(ctx, cursor)
		if err != nil {
			return nil, err
		}

		for _, raw := range resp.Data {
			category := models.Category{
				ID:   raw.ID,
				Name: raw.Attributes.Name,
				Type: raw.Type,
			}
			if raw.Relationships != nil && raw.Relationships.Parent.Data != nil {
				parentID := raw.Relationships.Parent.Data.ID
				category.ParentCategoryID = &parentID
			}
			categories = append(categories, category)
		}

		if resp.Links.Next == "" {
			return categories, nil
		}
		cursor = resp.Links.Next
	}
}

// LookupCategory resolves a raw category reference against a previously
// loaded id lookup. A nil ref resolves to nil; a missing or empty lookup
// degrades to a stub carrying only the id and type, which is enough to index
// and join on later. Ingestion therefore never blocks on an unresolved
// category.
func (s *categoryService) LookupCategory(ref *upbank.ResourceIdentifier, lookup map[string]models.Category) *models.Category {
	if ref == nil {
		return nil
	}

	if match, ok := lookup[ref.ID]; ok {
		return &match
	}

	return &models.Category{ID: ref.ID, Type: ref.Type}
}
