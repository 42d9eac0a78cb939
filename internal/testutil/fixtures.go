package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"upcache/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAccount creates a transactional account with a unique id.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()
	return CreateTestAccountOfType(t, db, models.AccountTypeTransactional)
}

// CreateTestAccountOfType creates an account of the given type.
func CreateTestAccountOfType(t *testing.T, db *gorm.DB, accountType models.AccountType) *models.Account {
	t.Helper()

	account := &models.Account{
		ID:            uuid.NewString(),
		DisplayName:   fmt.Sprintf("Test Account %d", nextID()),
		AccountType:   accountType,
		OwnershipType: models.OwnershipTypeIndividual,
		Balance: models.MoneyObject{
			CurrencyCode:     "AUD",
			Value:            "100.00",
			ValueInBaseUnits: 10000,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a top-level category.
func CreateTestCategory(t *testing.T, db *gorm.DB, id, name string) *models.Category {
	t.Helper()
	return CreateTestChildCategory(t, db, id, name, nil)
}

// CreateTestChildCategory creates a category with the given parent id.
func CreateTestChildCategory(t *testing.T, db *gorm.DB, id, name string, parentID *string) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:               id,
		Name:             name,
		Type:             models.CategoryResourceType,
		ParentCategoryID: parentID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a categorizable transaction of the given
// amount (in base units) created at the given instant.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID string, amount int64, createdAt time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		ID:              uuid.NewString(),
		AccountID:       &accountID,
		Status:          models.TransactionStatusSettled,
		Description:     fmt.Sprintf("Test Merchant %d", nextID()),
		IsCategorizable: true,
		Amount: models.MoneyObject{
			CurrencyCode:     "AUD",
			Value:            fmt.Sprintf("%.2f", float64(amount)/100),
			ValueInBaseUnits: amount,
		},
		CreatedAt:    createdAt,
		Tags:         models.TagList{},
		InferredType: models.TransactionTypeTransaction,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
