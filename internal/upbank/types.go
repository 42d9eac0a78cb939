package upbank

import (
	"fmt"
	"strings"
	"time"

	"upcache/internal/models"
)

// PaginationLinks carries the opaque cursor URLs the Up API returns with
// every collection response. Next is empty on the final page.
type PaginationLinks struct {
	Prev string `json:"prev"`
	Next string `json:"next"`
}

// MoneyObject is an amount of money as the API serialises it. Attribute
// keys are camelCase on the wire; the snake_case cache representation is
// models.MoneyObject, mapped at ingestion.
type MoneyObject struct {
	CurrencyCode     string `json:"currencyCode"`
	Value            string `json:"value"`
	ValueInBaseUnits int64  `json:"valueInBaseUnits"`
}

// HoldInfo carries the amounts a transaction was held at.
type HoldInfo struct {
	Amount        MoneyObject  `json:"amount"`
	ForeignAmount *MoneyObject `json:"foreignAmount"`
}

// RoundUp describes how a transaction was rounded up.
type RoundUp struct {
	Amount       MoneyObject  `json:"amount"`
	BoostPortion *MoneyObject `json:"boostPortion"`
}

// Cashback describes an instant reimbursement applied to a transaction.
type Cashback struct {
	Description string      `json:"description"`
	Amount      MoneyObject `json:"amount"`
}

// CardPurchaseMethod describes the card interaction for a purchase.
type CardPurchaseMethod struct {
	Method           string  `json:"method"`
	CardNumberSuffix *string `json:"cardNumberSuffix"`
}

// ResourceIdentifier is a bare {type, id} reference to another resource.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship wraps a nullable to-one reference.
type Relationship struct {
	Data *ResourceIdentifier `json:"data"`
}

// RelationshipList wraps a to-many reference.
type RelationshipList struct {
	Data []ResourceIdentifier `json:"data"`
}

// AccountAttributes are the account fields the API reports.
type AccountAttributes struct {
	DisplayName   string               `json:"displayName"`
	AccountType   models.AccountType   `json:"accountType"`
	OwnershipType models.OwnershipType `json:"ownershipType"`
	Balance       MoneyObject          `json:"balance"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// AccountResource is a single account resource object.
type AccountResource struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Attributes AccountAttributes `json:"attributes"`
}

// AccountsResponse is a page of accounts.
type AccountsResponse struct {
	Data  []AccountResource `json:"data"`
	Links PaginationLinks   `json:"links"`
}

// AccountResponse is a single-account envelope.
type AccountResponse struct {
	Data AccountResource `json:"data"`
}

// TransactionAttributes are the transaction fields the API reports. All
// values are copied verbatim into the cache.
type TransactionAttributes struct {
	Status             models.TransactionStatus `json:"status"`
	RawText            *string                  `json:"rawText"`
	Description        string                   `json:"description"`
	Message            *string                  `json:"message"`
	IsCategorizable    bool                     `json:"isCategorizable"`
	HoldInfo           *HoldInfo                `json:"holdInfo"`
	RoundUp            *RoundUp                 `json:"roundUp"`
	Cashback           *Cashback                `json:"cashback"`
	Amount             MoneyObject              `json:"amount"`
	ForeignAmount      *MoneyObject             `json:"foreignAmount"`
	CardPurchaseMethod *CardPurchaseMethod      `json:"cardPurchaseMethod"`
	SettledAt          *time.Time               `json:"settledAt"`
	CreatedAt          time.Time                `json:"createdAt"`
}

// TransactionRelationships link a transaction to its account, categories,
// tags, and transfer counterpart.
type TransactionRelationships struct {
	Account         *Relationship     `json:"account"`
	TransferAccount *Relationship     `json:"transferAccount"`
	Category        *Relationship     `json:"category"`
	ParentCategory  *Relationship     `json:"parentCategory"`
	Tags            *RelationshipList `json:"tags"`
}

// TransactionResource is a single transaction resource object.
type TransactionResource struct {
	Type          string                   `json:"type"`
	ID            string                   `json:"id"`
	Attributes    TransactionAttributes    `json:"attributes"`
	Relationships TransactionRelationships `json:"relationships"`
}

// TransactionsResponse is a page of transactions.
type TransactionsResponse struct {
	Data  []TransactionResource `json:"data"`
	Links PaginationLinks       `json:"links"`
}

// CategoryAttributes are the category fields the API reports.
type CategoryAttributes struct {
	Name string `json:"name"`
}

// CategoryRelationships link a category to its optional parent.
type CategoryRelationships struct {
	Parent Relationship `json:"parent"`
}

// CategoryResource is a single category resource object.
type CategoryResource struct {
	Type          string                 `json:"type"`
	ID            string                 `json:"id"`
	Attributes    CategoryAttributes     `json:"attributes"`
	Relationships *CategoryRelationships `json:"relationships"`
}

// CategoriesResponse is the category taxonomy. The endpoint does not
// currently paginate but the links are decoded in case that ever changes.
type CategoriesResponse struct {
	Data  []CategoryResource `json:"data"`
	Links PaginationLinks    `json:"links"`
}

// pingResponse is the body of /util/ping on success.
type pingResponse struct {
	Meta struct {
		ID          string `json:"id"`
		StatusEmoji string `json:"statusEmoji"`
	} `json:"meta"`
}

// ErrorSource points at the request parameter or body path an error relates to.
type ErrorSource struct {
	Parameter string `json:"parameter,omitempty"`
	Pointer   string `json:"pointer,omitempty"`
}

// ErrorObject is one structured error from the API.
type ErrorObject struct {
	Status string       `json:"status"`
	Title  string       `json:"title"`
	Detail string       `json:"detail"`
	Source *ErrorSource `json:"source,omitempty"`
}

// APIError is returned when the Up API answers with an error document
// instead of a payload. It preserves every structured error the API sent.
type APIError struct {
	HTTPStatus int
	Errors     []ErrorObject
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("up api: unexpected status %d", e.HTTPStatus)
	}
	titles := make([]string, len(e.Errors))
	for i, apiErr := range e.Errors {
		titles[i] = apiErr.Title
	}
	return fmt.Sprintf("up api: status %d: %s", e.HTTPStatus, strings.Join(titles, "; "))
}

// NotFound reports whether the API answered 404 for the requested resource.
func (e *APIError) NotFound() bool {
	return e.HTTPStatus == 404
}
