package services

import (
	"testing"
	"time"

	"upcache/internal/models"
	"upcache/internal/pagination"
	"upcache/internal/testutil"
)

func TestQueryGetTransactions(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("pages newest first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		account := testutil.CreateTestAccount(t, db)
		for i := 0; i < 10; i++ {
			testutil.CreateTestTransaction(t, db, account.ID, -1000, base.Add(time.Duration(i)*time.Hour))
		}
		svc := NewTransactionQueryService(db)

		page, err := svc.GetTransactions(nil, pagination.PageRequest{Page: 1, PageSize: 4})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 10 {
			t.Fatalf("expected 10 total, got %d", page.TotalItems)
		}
		if page.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", page.TotalPages)
		}
		if len(page.Data) != 4 {
			t.Fatalf("expected 4 items on page 1, got %d", len(page.Data))
		}
		if !page.Data[0].CreatedAt.Equal(base.Add(9 * time.Hour)) {
			t.Errorf("expected newest transaction first, got %v", page.Data[0].CreatedAt)
		}

		last, err := svc.GetTransactions(nil, pagination.PageRequest{Page: 3, PageSize: 4})
		testutil.AssertNoError(t, err)
		if len(last.Data) != 2 {
			t.Errorf("expected 2 items on final page, got %d", len(last.Data))
		}
	})

	t.Run("page below one clamps to first page", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		account := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransaction(t, db, account.ID, -1000, base)
		svc := NewTransactionQueryService(db)

		page, err := svc.GetTransactions(nil, pagination.PageRequest{Page: -5, PageSize: 10})
		testutil.AssertNoError(t, err)
		if page.Page != 1 {
			t.Errorf("expected page clamped to 1, got %d", page.Page)
		}
		if len(page.Data) != 1 {
			t.Errorf("expected 1 item, got %d", len(page.Data))
		}
	})

	t.Run("date bounds are inclusive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		account := testutil.CreateTestAccount(t, db)
		boundary := base.Add(48 * time.Hour)
		testutil.CreateTestTransaction(t, db, account.ID, -1000, boundary.Add(-time.Hour))
		target := testutil.CreateTestTransaction(t, db, account.ID, -2000, boundary)
		testutil.CreateTestTransaction(t, db, account.ID, -3000, boundary.Add(time.Hour))
		svc := NewTransactionQueryService(db)

		criteria := &models.TransactionQueryCriteria{Since: &boundary, Until: &boundary}
		page, err := svc.GetTransactions(criteria, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("expected exactly the boundary transaction, got %d", page.TotalItems)
		}
		if page.Data[0].ID != target.ID {
			t.Errorf("expected transaction %s, got %s", target.ID, page.Data[0].ID)
		}
	})

	t.Run("filters by account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		mine := testutil.CreateTestAccount(t, db)
		other := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransaction(t, db, mine.ID, -1000, base)
		testutil.CreateTestTransaction(t, db, other.ID, -1000, base)
		svc := NewTransactionQueryService(db)

		criteria := &models.TransactionQueryCriteria{AccountID: &mine.ID}
		page, err := svc.GetTransactions(criteria, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("expected 1 transaction for account, got %d", page.TotalItems)
		}
		if *page.Data[0].AccountID != mine.ID {
			t.Errorf("expected account %s, got %s", mine.ID, *page.Data[0].AccountID)
		}
	})

	t.Run("filters by inferred type set", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		account := testutil.CreateTestAccount(t, db)
		plain := testutil.CreateTestTransaction(t, db, account.ID, -1000, base)
		transfer := testutil.CreateTestTransaction(t, db, account.ID, -2000, base.Add(time.Hour))
		db.Model(transfer).UpdateColumn("inferred_type", models.TransactionTypeTransfer)
		cover := testutil.CreateTestTransaction(t, db, account.ID, -3000, base.Add(2*time.Hour))
		db.Model(cover).UpdateColumn("inferred_type", models.TransactionTypeCover)
		svc := NewTransactionQueryService(db)

		criteria := &models.TransactionQueryCriteria{
			TransactionTypes: []models.TransactionType{
				models.TransactionTypeTransfer,
				models.TransactionTypeCover,
			},
		}
		page, err := svc.GetTransactions(criteria, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 2 {
			t.Fatalf("expected 2 transactions matching type set, got %d", page.TotalItems)
		}
		for _, tx := range page.Data {
			if tx.ID == plain.ID {
				t.Error("type filter leaked a plain transaction")
			}
		}
	})

	t.Run("excludes uncategorisable transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		account := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransaction(t, db, account.ID, -1000, base)
		internal := testutil.CreateTestTransaction(t, db, account.ID, -2000, base.Add(time.Hour))
		db.Model(internal).UpdateColumn("is_categorizable", false)
		svc := NewTransactionQueryService(db)

		criteria := &models.TransactionQueryCriteria{ExcludeUncategorisableTransactions: true}
		page, err := svc.GetTransactions(criteria, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Errorf("expected 1 categorizable transaction, got %d", page.TotalItems)
		}
	})
}

func TestGetTransactionCacheStats(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty cache reports zero with nil dates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionQueryService(db)

		stats, err := svc.GetTransactionCacheStats()
		testutil.AssertNoError(t, err)

		if stats.Count != 0 {
			t.Errorf("expected zero count, got %d", stats.Count)
		}
		if stats.FirstTransactionDate != nil || stats.MostRecentTransactionDate != nil {
			t.Error("expected nil date bounds for empty cache")
		}
		if len(stats.CategoryStats) != 0 {
			t.Errorf("expected no category stats, got %d", len(stats.CategoryStats))
		}
	})

	t.Run("buckets categories three ways", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		groceries := testutil.CreateTestCategory(t, db, "groceries", "Groceries")
		account := testutil.CreateTestAccount(t, db)

		categorized := testutil.CreateTestTransaction(t, db, account.ID, -1000, base)
		db.Model(categorized).UpdateColumn("category_id", groceries.ID)
		categorized2 := testutil.CreateTestTransaction(t, db, account.ID, -1000, base.Add(time.Hour))
		db.Model(categorized2).UpdateColumn("category_id", groceries.ID)

		// Categorizable but never categorized.
		testutil.CreateTestTransaction(t, db, account.ID, -1000, base.Add(2*time.Hour))

		// Cannot carry a category at all.
		internal := testutil.CreateTestTransaction(t, db, account.ID, -1000, base.Add(3*time.Hour))
		db.Model(internal).UpdateColumn("is_categorizable", false)

		svc := NewTransactionQueryService(db)
		stats, err := svc.GetTransactionCacheStats()
		testutil.AssertNoError(t, err)

		if stats.Count != 4 {
			t.Fatalf("expected 4 transactions, got %d", stats.Count)
		}
		if stats.FirstTransactionDate == nil || !stats.FirstTransactionDate.Equal(base) {
			t.Errorf("expected first date %v, got %v", base, stats.FirstTransactionDate)
		}
		if stats.MostRecentTransactionDate == nil || !stats.MostRecentTransactionDate.Equal(base.Add(3*time.Hour)) {
			t.Errorf("expected last date %v, got %v", base.Add(3*time.Hour), stats.MostRecentTransactionDate)
		}

		byID := map[string]models.CategoryStat{}
		for _, stat := range stats.CategoryStats {
			byID[stat.CategoryID] = stat
		}
		if got := byID["groceries"]; got.Count != 2 || got.Name != "Groceries" {
			t.Errorf("unexpected groceries bucket: %+v", got)
		}
		if got := byID[models.CategoryStatUncategorised]; got.Count != 1 {
			t.Errorf("unexpected uncategorised bucket: %+v", got)
		}
		if got := byID[models.CategoryStatUncategorisable]; got.Count != 1 {
			t.Errorf("unexpected uncategorisable bucket: %+v", got)
		}
	})

	t.Run("categorized row keeps its category despite the flag", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		groceries := testutil.CreateTestCategory(t, db, "groceries", "Groceries")
		account := testutil.CreateTestAccount(t, db)

		tx := testutil.CreateTestTransaction(t, db, account.ID, -1000, base)
		db.Model(tx).UpdateColumn("category_id", groceries.ID)
		db.Model(tx).UpdateColumn("is_categorizable", false)

		svc := NewTransactionQueryService(db)
		stats, err := svc.GetTransactionCacheStats()
		testutil.AssertNoError(t, err)

		if len(stats.CategoryStats) != 1 {
			t.Fatalf("expected 1 stat row, got %d", len(stats.CategoryStats))
		}
		got := stats.CategoryStats[0]
		if got.CategoryID != groceries.ID || got.Count != 1 {
			t.Errorf("expected the groceries bucket, got %+v", got)
		}
	})

	t.Run("stub category without a name falls back to its id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		account := testutil.CreateTestAccount(t, db)
		tx := testutil.CreateTestTransaction(t, db, account.ID, -1000, base)
		db.Model(tx).UpdateColumn("category_id", "unseen-category")

		svc := NewTransactionQueryService(db)
		stats, err := svc.GetTransactionCacheStats()
		testutil.AssertNoError(t, err)

		if len(stats.CategoryStats) != 1 {
			t.Fatalf("expected 1 stat row, got %d", len(stats.CategoryStats))
		}
		if stats.CategoryStats[0].Name != "unseen-category" {
			t.Errorf("expected id fallback for name, got %q", stats.CategoryStats[0].Name)
		}
	})
}

func TestGetTransactionSumsByDay(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	account := testutil.CreateTestAccount(t, db)
	testutil.CreateTestTransaction(t, db, account.ID, -1000, base)
	testutil.CreateTestTransaction(t, db, account.ID, -2500, base.Add(3*time.Hour))
	testutil.CreateTestTransaction(t, db, account.ID, -400, base.Add(24*time.Hour))

	svc := NewTransactionQueryService(db)
	aggregates, err := svc.GetTransactionSumsByDay(nil)
	testutil.AssertNoError(t, err)

	if len(aggregates) != 2 {
		t.Fatalf("expected 2 days, got %d", len(aggregates))
	}
	if aggregates[0].Date != "2024-03-01" || aggregates[0].Total != -3500 {
		t.Errorf("unexpected first day: %+v", aggregates[0])
	}
	if aggregates[1].Date != "2024-03-02" || aggregates[1].Total != -400 {
		t.Errorf("unexpected second day: %+v", aggregates[1])
	}
}
