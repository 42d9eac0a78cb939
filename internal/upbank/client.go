// Package upbank provides an HTTP client for the Up banking API.
//
// The client speaks v1 of the API: bearer-token authorization validated once
// per client lifetime against /util/ping, cursor-based pagination where every
// next-page link embeds the original query, and structured error documents on
// failure.
package upbank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "upcache/internal/errors"
)

// Client communicates with the Up API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client

	mu             sync.Mutex
	tokenValidated bool
}

// NewClient creates a new Up API client. If httpClient is nil a default
// client with a 30 second per-request timeout is used.
func NewClient(baseURL, accessToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  httpClient,
	}
}

// GetAccounts fetches a page of accounts. An empty cursor requests the first
// page; otherwise cursor is the opaque next-page URL from a previous response.
func (c *Client) GetAccounts(ctx context.Context, cursor string) (*AccountsResponse, error) {
	if err := c.ensureAuthorized(ctx); err != nil {
		return nil, err
	}

	target := cursor
	if target == "" {
		target = c.baseURL + "/accounts"
	}

	var out AccountsResponse
	if err := c.get(ctx, target, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAccount fetches a single account by id.
func (c *Client) GetAccount(ctx context.Context, accountID string) (*AccountResponse, error) {
	if err := c.ensureAuthorized(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(accountID) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account id is required")
	}

	var out AccountResponse
	if err := c.get(ctx, c.baseURL+"/accounts/"+url.PathEscape(accountID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTransactions fetches a page of transactions across all accounts. When
// cursor is set all other parameters are ignored, since the API embeds the
// original query in every next-page link.
func (c *Client) GetTransactions(ctx context.Context, since, until *time.Time, pageSize int, cursor string) (*TransactionsResponse, error) {
	if err := c.ensureAuthorized(ctx); err != nil {
		return nil, err
	}

	target := cursor
	if target == "" {
		target = c.baseURL + "/transactions?" + transactionQuery(since, until, pageSize)
	}

	var out TransactionsResponse
	if err := c.get(ctx, target, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTransactionsForAccount fetches the first page of transactions for a
// single account with the same filters as GetTransactions.
func (c *Client) GetTransactionsForAccount(ctx context.Context, accountID string, since, until *time.Time, pageSize int) (*TransactionsResponse, error) {
	if err := c.ensureAuthorized(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(accountID) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account id is required")
	}

	target := c.baseURL + "/accounts/" + url.PathEscape(accountID) + "/transactions?" + transactionQuery(since, until, pageSize)

	var out TransactionsResponse
	if err := c.get(ctx, target, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCategories fetches the category taxonomy. The endpoint is not paginated
// today, but a cursor is accepted for forward compatibility.
func (c *Client) GetCategories(ctx context.Context, cursor string) (*CategoriesResponse, error) {
	if err := c.ensureAuthorized(ctx); err != nil {
		return nil, err
	}

	target := cursor
	if target == "" {
		target = c.baseURL + "/categories"
	}

	var out CategoriesResponse
	if err := c.get(ctx, target, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ensureAuthorized validates the configured access token against the ping
// endpoint. A token is only validated once per client; construct a new client
// to force re-validation.
func (c *Client) ensureAuthorized(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tokenValidated {
		return nil
	}
	if strings.TrimSpace(c.accessToken) == "" {
		return apperrors.ErrMissingAccessToken
	}

	var out pingResponse
	if err := c.get(ctx, c.baseURL+"/util/ping", &out); err != nil {
		if apiErr, ok := err.(*APIError); ok {
			return apperrors.Wrap(apperrors.ErrInvalidAccessToken, apiErr)
		}
		return err
	}

	c.tokenValidated = true
	return nil
}

// get performs an authorized GET and decodes either the success payload into
// out or the API's structured error document into an *APIError.
func (c *Client) get(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errDoc struct {
			Errors []ErrorObject `json:"errors"`
		}
		// A non-JSON error body still produces a usable APIError with the
		// HTTP status alone.
		_ = json.NewDecoder(resp.Body).Decode(&errDoc)
		return &APIError{HTTPStatus: resp.StatusCode, Errors: errDoc.Errors}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// transactionQuery builds the filter query string shared by the transaction
// endpoints. Instants are sent as RFC 3339 so offsets survive URL encoding.
func transactionQuery(since, until *time.Time, pageSize int) string {
	query := url.Values{}
	query.Set("page[size]", strconv.Itoa(pageSize))
	if since != nil {
		query.Set("filter[since]", since.Format(time.RFC3339))
	}
	if until != nil {
		query.Set("filter[until]", until.Format(time.RFC3339))
	}
	return query.Encode()
}
