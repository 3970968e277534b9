package inventory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Remote defines the Remote Store operations the client relies on.
// This interface is implemented by *Client and can be used for testing.
type Remote interface {
	ListItems(ctx context.Context) ([]Item, error)
	ListTransactions(ctx context.Context) ([]Transaction, error)
	CreateItem(ctx context.Context, item Item) (Item, error)
	UpdateItem(ctx context.Context, item Item) (Item, error)
	DeleteItem(ctx context.Context, id ID) error
	CreateTransaction(ctx context.Context, txn Transaction) (Transaction, error)
	UpdateTransaction(ctx context.Context, txn Transaction) (Transaction, error)
	DeleteTransaction(ctx context.Context, id ID) error
	Login(ctx context.Context, creds Credentials) (Account, error)
}

// Ensure Client implements Remote at compile time.
var _ Remote = (*Client)(nil)

// Client talks to the inventory HTTP API.
type Client struct {
	http    *resty.Client
	baseURL string
}

const (
	DefaultBaseURL        = "http://localhost:5000/api"
	defaultUserAgent      = "stockpile/0.1"
	defaultRequestTimeout = 5 * time.Second
	requestIDHeader       = "X-Request-ID"
)

// ClientOptions configure NewClient.
type ClientOptions struct {
	BaseURL string
	Timeout time.Duration // zero uses 5s
	Logger  *zap.Logger
}

// APIError is returned when the Remote Store answers with a non-2xx status.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string // server supplied "error" field, if any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
}

// IsAPIError reports whether err is an *APIError with the given status.
func IsAPIError(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (p *errorPayload) text() string {
	if p == nil {
		return ""
	}
	if p.Error != "" {
		return p.Error
	}
	return p.Message
}

// NewClient builds a Client for the API rooted at opts.BaseURL.
func NewClient(opts ClientOptions) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rc := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", defaultUserAgent).
		SetLogger(logger.Named("http").Sugar())

	return &Client{http: rc, baseURL: base}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

// ListItems retrieves the full item catalog.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := c.do(ctx, http.MethodGet, "/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListTransactions retrieves the full transaction ledger.
func (c *Client) ListTransactions(ctx context.Context) ([]Transaction, error) {
	var txns []Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// CreateItem posts a new item; the server assigns its id.
func (c *Client) CreateItem(ctx context.Context, item Item) (Item, error) {
	item.ID = ""
	var created Item
	if err := c.do(ctx, http.MethodPost, "/items", item, &created); err != nil {
		return Item{}, err
	}
	return created, nil
}

// UpdateItem replaces the item with the same id.
func (c *Client) UpdateItem(ctx context.Context, item Item) (Item, error) {
	if item.ID == "" {
		return Item{}, fmt.Errorf("item id required")
	}
	var updated Item
	if err := c.do(ctx, http.MethodPut, "/items/"+url.PathEscape(item.ID.String()), item, &updated); err != nil {
		return Item{}, err
	}
	if updated.ID == "" {
		updated = item
	}
	return updated, nil
}

// DeleteItem removes the item. Related transactions are left alone.
func (c *Client) DeleteItem(ctx context.Context, id ID) error {
	if id == "" {
		return fmt.Errorf("item id required")
	}
	return c.do(ctx, http.MethodDelete, "/items/"+url.PathEscape(id.String()), nil, nil)
}

// CreateTransaction posts a transaction; the server recomputes the item balance.
func (c *Client) CreateTransaction(ctx context.Context, txn Transaction) (Transaction, error) {
	txn.ID = ""
	var created Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", txn, &created); err != nil {
		return Transaction{}, err
	}
	return created, nil
}

// UpdateTransaction replaces the transaction with the same id.
func (c *Client) UpdateTransaction(ctx context.Context, txn Transaction) (Transaction, error) {
	if txn.ID == "" {
		return Transaction{}, fmt.Errorf("transaction id required")
	}
	var updated Transaction
	if err := c.do(ctx, http.MethodPut, "/transactions/"+url.PathEscape(txn.ID.String()), txn, &updated); err != nil {
		return Transaction{}, err
	}
	if updated.ID == "" {
		updated = txn
	}
	return updated, nil
}

// DeleteTransaction removes the transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id ID) error {
	if id == "" {
		return fmt.Errorf("transaction id required")
	}
	return c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id.String()), nil, nil)
}

// Login exchanges credentials for the account role.
func (c *Client) Login(ctx context.Context, creds Credentials) (Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPost, "/login", creds, &account); err != nil {
		return Account{}, err
	}
	if strings.TrimSpace(account.Role) == "" {
		return Account{}, fmt.Errorf("login response missing role")
	}
	if account.Username == "" {
		account.Username = creds.Username
	}
	return account, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	apiErr := new(errorPayload)
	req := c.http.R().
		SetContext(ctx).
		SetError(apiErr)
	if id := RequestIDFrom(ctx); id != "" {
		req.SetHeader(requestIDHeader, id)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if dest != nil {
		req.SetResult(dest).ForceContentType("application/json")
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return &APIError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode(),
			Message: apiErr.text(),
		}
	}
	return nil
}

type requestIDKey struct{}

// WithRequestID tags ctx so requests made with it carry an X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id set by WithRequestID, if any.
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func parseBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String(), nil
}
