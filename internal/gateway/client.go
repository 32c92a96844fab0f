// Package gateway is the typed HTTP client for the remote tenant API.
// It owns the wire DTOs, the remote error taxonomy and the tolerant numeric
// decoding the upstream requires. All persistence stays with the caller —
// the gateway only talks to the network.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	endpointPosData    = "/pos_data.php"
	endpointProducts   = "/products.php"
	endpointClients    = "/clients.php"
	endpointCreateSale = "/create_sale.php"
	endpointSales      = "/sales.php"
	endpointDrafts     = "/drafts.php"
)

// ErrBaseURLNotSet is returned when no tenant domain has been configured yet.
var ErrBaseURLNotSet = errors.New("tenant base url not configured")

// BaseURLProvider resolves the tenant base URL. It is consulted on every
// request because the configured domain can change at runtime.
type BaseURLProvider interface {
	APIBaseURL(ctx context.Context) (string, error)
}

type Client struct {
	provider   BaseURLProvider
	fallback   string // optional build-time default, used when nothing is persisted
	httpClient *http.Client
	// retryWait separates the single automatic transport-level retry from
	// the failed attempt. Engine-level retry policies live in the services.
	retryWait time.Duration
}

func NewClient(provider BaseURLProvider, fallback string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		provider:   provider,
		fallback:   strings.TrimRight(fallback, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retryWait:  500 * time.Millisecond,
	}
}

// FetchBootstrap loads the reference data and terminal defaults.
func (c *Client) FetchBootstrap(ctx context.Context) (*BootstrapResponse, error) {
	var out BootstrapResponse
	if err := c.get(ctx, endpointPosData, nil, "fetch bootstrap", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchProductsPage loads one catalog page for a warehouse. The server
// decides the page size; the caller detects the final page by comparing the
// returned count against the expected size it was configured with.
func (c *Client) FetchProductsPage(ctx context.Context, warehouseID, page int, filter ProductFilter) (*ProductPageResponse, error) {
	q := url.Values{}
	q.Set("warehouse_id", strconv.Itoa(warehouseID))
	q.Set("page", strconv.Itoa(page))
	if filter.CategoryID > 0 {
		q.Set("category_id", strconv.Itoa(filter.CategoryID))
	}
	if filter.BrandID > 0 {
		q.Set("brand_id", strconv.Itoa(filter.BrandID))
	}
	if filter.InStockOnly {
		q.Set("stock", "1")
	}

	var out ProductPageResponse
	if err := c.get(ctx, endpointProducts, q, "fetch products page", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitSale posts one locally committed sale.
func (c *Client) SubmitSale(ctx context.Context, req SubmitSaleRequest) (*SubmitSaleResponse, error) {
	var out SubmitSaleResponse
	if err := c.post(ctx, endpointCreateSale, req, "submit sale", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchSales lists server-side sales (browsing only, never merged locally).
func (c *Client) FetchSales(ctx context.Context, limit, page int) (*SalesListResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	var out SalesListResponse
	if err := c.get(ctx, endpointSales, q, "fetch sales", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateClient registers a customer remotely.
func (c *Client) CreateClient(ctx context.Context, req CreateClientRequest) (*CreateClientResponse, error) {
	var out CreateClientResponse
	if err := c.post(ctx, endpointClients, req, "create client", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitDraft saves a draft sale remotely.
func (c *Client) SubmitDraft(ctx context.Context, req SubmitDraftRequest) (*SubmitDraftResponse, error) {
	var out SubmitDraftResponse
	if err := c.post(ctx, endpointDrafts, req, "submit draft", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchDrafts lists server-side drafts.
func (c *Client) FetchDrafts(ctx context.Context, limit, page int) (*DraftListResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	var out DraftListResponse
	if err := c.get(ctx, endpointDrafts, q, "fetch drafts", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDraft removes a server-side draft.
func (c *Client) DeleteDraft(ctx context.Context, id int) error {
	q := url.Values{}
	q.Set("id", strconv.Itoa(id))
	return c.do(ctx, http.MethodDelete, endpointDrafts, q, nil, "delete draft", nil)
}

// ── Transport ────────────────────────────────────────────────────────────────

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, op string, out interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, q, nil, op, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body interface{}, op string, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", op, err)
	}
	return c.do(ctx, http.MethodPost, endpoint, nil, payload, op, out)
}

// do resolves the base URL, performs the request, and classifies the outcome
// into the gateway error taxonomy. A transport failure is retried once after
// a short wait — connection resets on flaky POS WiFi are common enough that
// a single immediate retry saves a full engine cycle.
func (c *Client) do(ctx context.Context, method, endpoint string, q url.Values, body []byte, op string, out interface{}) error {
	base, err := c.baseURL(ctx)
	if err != nil {
		return &ConnectivityError{Err: err}
	}

	target := base + endpoint
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	resp, err := c.attempt(ctx, method, target, body)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryWait):
		}
		if resp, err = c.attempt(ctx, method, target, body); err != nil {
			return &ConnectivityError{Err: err}
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) attempt(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

// baseURL re-resolves the configured domain on every call; the cashier can
// change it at runtime and requests must follow immediately.
func (c *Client) baseURL(ctx context.Context) (string, error) {
	if c.provider != nil {
		u, err := c.provider.APIBaseURL(ctx)
		if err != nil {
			return "", err
		}
		if u != "" {
			return strings.TrimRight(u, "/"), nil
		}
	}
	if c.fallback != "" {
		return c.fallback, nil
	}
	return "", ErrBaseURLNotSet
}
