package services

import "upcache/internal/models"

// Events carries optional callbacks the consumer can subscribe to for cache
// progress. Nil fields are skipped; every emit helper is safe on a nil
// receiver so services can run without a subscriber.
//
// TransactionCacheFinished always fires when a cache run ends, including on
// failure, so consumers can tear down progress UI.
type Events struct {
	AccountsUpdating func()
	AccountsUpdated  func(accounts []models.Account)

	CategoriesUpdating func()
	CategoriesUpdated  func(categories []models.Category)

	TransactionCacheStarted  func()
	TransactionCacheFinished func()
	// TransactionCacheMessage receives human-readable progress text which may
	// contain simple markup for emphasis.
	TransactionCacheMessage func(message string)
}

func (e *Events) emitAccountsUpdating() {
	if e != nil && e.AccountsUpdating != nil {
		e.AccountsUpdating()
	}
}

func (e *Events) emitAccountsUpdated(accounts []models.Account) {
	if e != nil && e.AccountsUpdated != nil {
		e.AccountsUpdated(accounts)
	}
}

func (e *Events) emitCategoriesUpdating() {
	if e != nil && e.CategoriesUpdating != nil {
		e.CategoriesUpdating()
	}
}

func (e *Events) emitCategoriesUpdated(categories []models.Category) {
	if e != nil && e.CategoriesUpdated != nil {
		e.CategoriesUpdated(categories)
	}
}

func (e *Events) emitTransactionCacheStarted() {
	if e != nil && e.TransactionCacheStarted != nil {
		e.TransactionCacheStarted()
	}
}

func (e *Events) emitTransactionCacheFinished() {
	if e != nil && e.TransactionCacheFinished != nil {
		e.TransactionCacheFinished()
	}
}

func (e *Events) emitTransactionCacheMessage(message string) {
	if e != nil && e.TransactionCacheMessage != nil {
		e.TransactionCacheMessage(message)
	}
}
