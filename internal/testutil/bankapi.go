package testutil

import (
	"context"
	"fmt"
	"time"

	"upcache/internal/upbank"
)

// FakeBankAPI is a scripted stand-in for the Up API client. Responses are
// served page by page from pre-loaded slices; Next links are synthetic cursors
// that index into the page list. The zero value serves empty responses.
type FakeBankAPI struct {
	AccountPages     []upbank.AccountsResponse
	TransactionPages []upbank.TransactionsResponse
	CategoryPages    []upbank.CategoriesResponse
	Accounts         map[string]*upbank.AccountResponse

	// Err, when set, is returned by every call.
	Err error
	// FailTransactionPage makes GetTransactions fail when asked for the page
	// with that index (1-based; 0 disables).
	FailTransactionPage int

	// Call counters for asserting cache behavior.
	AccountCalls     int
	TransactionCalls int
	CategoryCalls    int
}

func (f *FakeBankAPI) GetAccounts(ctx context.Context, cursor string) (*upbank.AccountsResponse, error) {
	f.AccountCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	idx := cursorIndex(cursor)
	if idx >= len(f.AccountPages) {
		return &upbank.AccountsResponse{Data: []upbank.AccountResource{}}, nil
	}
	page := f.AccountPages[idx]
	page.Links = pageLinks(idx, len(f.AccountPages))
	return &page, nil
}

func (f *FakeBankAPI) GetAccount(ctx context.Context, accountID string) (*upbank.AccountResponse, error) {
	f.AccountCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	if resp, ok := f.Accounts[accountID]; ok {
		return resp, nil
	}
	return nil, &upbank.APIError{
		HTTPStatus: 404,
		Errors: []upbank.ErrorObject{{
			Status: "404",
			Title:  "Not Found",
			Detail: "The requested resource was not found.",
		}},
	}
}

func (f *FakeBankAPI) GetTransactions(ctx context.Context, since, until *time.Time, pageSize int, cursor string) (*upbank.TransactionsResponse, error) {
	f.TransactionCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	idx := cursorIndex(cursor)
	if f.FailTransactionPage > 0 && idx+1 == f.FailTransactionPage {
		return nil, fmt.Errorf("scripted failure on transaction page %d", f.FailTransactionPage)
	}
	if idx >= len(f.TransactionPages) {
		return &upbank.TransactionsResponse{Data: []upbank.TransactionResource{}}, nil
	}
	page := f.TransactionPages[idx]
	page.Links = pageLinks(idx, len(f.TransactionPages))
	return &page, nil
}

func (f *FakeBankAPI) GetCategories(ctx context.Context, cursor string) (*upbank.CategoriesResponse, error) {
	f.CategoryCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	idx := cursorIndex(cursor)
	if idx >= len(f.CategoryPages) {
		return &upbank.CategoriesResponse{Data: []upbank.CategoryResource{}}, nil
	}
	page := f.CategoryPages[idx]
	page.Links = pageLinks(idx, len(f.CategoryPages))
	return &page, nil
}

func cursorIndex(cursor string) int {
	if cursor == "" {
		return 0
	}
	var idx int
	fmt.Sscanf(cursor, "page-%d", &idx)
	return idx
}

func pageLinks(idx, total int) upbank.PaginationLinks {
	links := upbank.PaginationLinks{}
	if idx+1 < total {
		links.Next = fmt.Sprintf("page-%d", idx+1)
	}
	if idx > 0 {
		links.Prev = fmt.Sprintf("page-%d", idx-1)
	}
	return links
}
