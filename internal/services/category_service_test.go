package services

import (
	"context"
	"testing"

	"upcache/internal/models"
	"upcache/internal/testutil"
	"upcache/internal/upbank"
)

func categoryResource(id, name string, parentID *string) upbank.CategoryResource {
	resource := upbank.CategoryResource{
		Type:       models.CategoryResourceType,
		ID:         id,
		Attributes: upbank.CategoryAttributes{Name: name},
	}
	if parentID != nil {
		resource.Relationships = &upbank.CategoryRelationships{
			Parent: upbank.Relationship{
				Data: &upbank.ResourceIdentifier{Type: models.CategoryResourceType, ID: *parentID},
			},
		}
	}
	return resource
}

func TestGetCategories(t *testing.T) {
	t.Run("empty cache loads from api and persists", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		parentID := "good-life"
		api := &testutil.FakeBankAPI{
			CategoryPages: []upbank.CategoriesResponse{{
				Data: []upbank.CategoryResource{
					categoryResource("good-life", "Good Life", nil),
					categoryResource("booze", "Booze", &parentID),
				},
			}},
		}
		svc := NewCategoryService(db, api, nil)

		categories, err := svc.GetCategories(context.Background(), false)
		testutil.AssertNoError(t, err)

		if len(categories) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(categories))
		}
		if api.CategoryCalls != 1 {
			t.Errorf("expected 1 api call, got %d", api.CategoryCalls)
		}

		var persisted int64
		if err := db.Model(&models.Category{}).Count(&persisted).Error; err != nil {
			t.Fatalf("counting categories: %v", err)
		}
		if persisted != 2 {
			t.Errorf("expected 2 persisted categories, got %d", persisted)
		}
	})

	t.Run("populated cache skips api", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		testutil.CreateTestCategory(t, db, "transport", "Transport")
		api := &testutil.FakeBankAPI{}
		svc := NewCategoryService(db, api, nil)

		categories, err := svc.GetCategories(context.Background(), false)
		testutil.AssertNoError(t, err)

		if len(categories) != 1 {
			t.Fatalf("expected 1 category, got %d", len(categories))
		}
		if api.CategoryCalls != 0 {
			t.Errorf("expected no api calls, got %d", api.CategoryCalls)
		}
	})

	t.Run("bypass refreshes populated cache", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		testutil.CreateTestCategory(t, db, "transport", "Transport")
		api := &testutil.FakeBankAPI{
			CategoryPages: []upbank.CategoriesResponse{{
				Data: []upbank.CategoryResource{
					categoryResource("transport", "Transport", nil),
					categoryResource("home", "Home", nil),
				},
			}},
		}
		svc := NewCategoryService(db, api, nil)

		_, err := svc.GetCategories(context.Background(), true)
		testutil.AssertNoError(t, err)

		if api.CategoryCalls != 1 {
			t.Errorf("expected 1 api call, got %d", api.CategoryCalls)
		}
		var persisted int64
		if err := db.Model(&models.Category{}).Count(&persisted).Error; err != nil {
			t.Fatalf("counting categories: %v", err)
		}
		if persisted != 2 {
			t.Errorf("expected 2 persisted categories, got %d", persisted)
		}
	})

	t.Run("parent references resolved in memory", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		parent := testutil.CreateTestCategory(t, db, "good-life", "Good Life")
		testutil.CreateTestChildCategory(t, db, "booze", "Booze", &parent.ID)
		svc := NewCategoryService(db, &testutil.FakeBankAPI{}, nil)

		categories, err := svc.GetCategories(context.Background(), false)
		testutil.AssertNoError(t, err)

		var child *models.Category
		for i := range categories {
			if categories[i].ID == "booze" {
				child = &categories[i]
			}
		}
		if child == nil {
			t.Fatal("expected booze category in result")
		}
		if child.Parent == nil {
			t.Fatal("expected parent back-reference to be resolved")
		}
		if child.Parent.Name != "Good Life" {
			t.Errorf("expected parent Good Life, got %s", child.Parent.Name)
		}
	})

	t.Run("dangling parent reference tolerated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		missing := "deleted-parent"
		testutil.CreateTestChildCategory(t, db, "orphan", "Orphan", &missing)
		svc := NewCategoryService(db, &testutil.FakeBankAPI{}, nil)

		categories, err := svc.GetCategories(context.Background(), false)
		testutil.AssertNoError(t, err)

		if len(categories) != 1 {
			t.Fatalf("expected 1 category, got %d", len(categories))
		}
		if categories[0].Parent != nil {
			t.Errorf("expected nil parent for dangling reference, got %+v", categories[0].Parent)
		}
	})

	t.Run("events fire around load", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		testutil.CreateTestCategory(t, db, "transport", "Transport")
		var updating, updated int
		events := &Events{
			CategoriesUpdating: func() { updating++ },
			CategoriesUpdated:  func([]models.Category) { updated++ },
		}
		svc := NewCategoryService(db, &testutil.FakeBankAPI{}, events)

		_, err := svc.GetCategories(context.Background(), false)
		testutil.AssertNoError(t, err)

		if updating != 1 || updated != 1 {
			t.Errorf("expected 1 updating and 1 updated event, got %d and %d", updating, updated)
		}
	})
}

func TestLookupCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db, &testutil.FakeBankAPI{}, nil)

	lookup := map[string]models.Category{
		"booze": {ID: "booze", Name: "Booze", Type: models.CategoryResourceType},
	}

	t.Run("nil reference", func(t *testing.T) {
		if got := svc.LookupCategory(nil, lookup); got != nil {
			t.Errorf("expected nil for nil reference, got %+v", got)
		}
	})

	t.Run("known id resolves full category", func(t *testing.T) {
		ref := &upbank.ResourceIdentifier{Type: models.CategoryResourceType, ID: "booze"}
		got := svc.LookupCategory(ref, lookup)
		if got == nil {
			t.Fatal("expected category, got nil")
		}
		if got.Name != "Booze" {
			t.Errorf("expected name Booze, got %s", got.Name)
		}
	})

	t.Run("unknown id degrades to stub", func(t *testing.T) {
		ref := &upbank.ResourceIdentifier{Type: models.CategoryResourceType, ID: "brand-new"}
		got := svc.LookupCategory(ref, lookup)
		if got == nil {
			t.Fatal("expected stub category, got nil")
		}
		if got.ID != "brand-new" || got.Type != models.CategoryResourceType {
			t.Errorf("stub carries wrong identity: %+v", got)
		}
		if got.Name != "" {
			t.Errorf("expected empty stub name, got %q", got.Name)
		}
		if !got.IsStub() {
			t.Error("expected IsStub to report true")
		}
	})

	t.Run("empty lookup always stubs", func(t *testing.T) {
		ref := &upbank.ResourceIdentifier{Type: models.CategoryResourceType, ID: "booze"}
		got := svc.LookupCategory(ref, map[string]models.Category{})
		if got == nil || got.Name != "" {
			t.Errorf("expected stub from empty lookup, got %+v", got)
		}
	})
}
