// Package client is the Go SDK for the invoicing API. It mirrors the wire
// format of the server and embeds the same totals calculator, so a draft can
// be previewed locally with results identical to what the server will store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invobill/invobill/pkg/billing"
)

// Client talks to an invoicing API server
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a client for the API at baseURL authenticating with the given
// bearer token
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response decoded from the server's error envelope
type APIError struct {
	StatusCode int
	Message    string
	Details    map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// LineItem is one invoice line on the wire
type LineItem struct {
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TaxPercent decimal.Decimal `json:"taxPercent"`
	Total      decimal.Decimal `json:"total,omitempty"`
}

// BillFrom identifies the issuing business
type BillFrom struct {
	BusinessName string `json:"businessName"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// BillTo identifies the invoiced client
type BillTo struct {
	ClientName string `json:"clientName"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Owner is the invoice owner's profile as returned by the server
type Owner struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	BusinessName string `json:"businessName,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// Invoice is the canonical invoice record returned by the server
type Invoice struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"ownerId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	DueDate       time.Time       `json:"dueDate"`
	BillFrom      BillFrom        `json:"billFrom"`
	BillTo        BillTo          `json:"billTo"`
	Items         []LineItem      `json:"items"`
	Notes         string          `json:"notes,omitempty"`
	PaymentTerms  string          `json:"paymentTerms"`
	Discount      decimal.Decimal `json:"discount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Owner         *Owner          `json:"user,omitempty"`
}

// CreateInvoiceRequest is the body of POST /v1/invoices
type CreateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoiceNumber,omitempty"`
	InvoiceDate   *time.Time      `json:"invoiceDate,omitempty"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	BillFrom      BillFrom        `json:"billFrom"`
	BillTo        BillTo          `json:"billTo"`
	Items         []LineItem      `json:"items"`
	Notes         string          `json:"notes,omitempty"`
	PaymentTerms  string          `json:"paymentTerms,omitempty"`
	Discount      decimal.Decimal `json:"discount"`
	Status        string          `json:"status,omitempty"`
}

// UpdateInvoiceRequest is the body of PUT /v1/invoices/:id. Nil fields leave
// the stored value untouched.
type UpdateInvoiceRequest struct {
	InvoiceNumber *string          `json:"invoiceNumber,omitempty"`
	InvoiceDate   *time.Time       `json:"invoiceDate,omitempty"`
	DueDate       *time.Time       `json:"dueDate,omitempty"`
	BillFrom      *BillFrom        `json:"billFrom,omitempty"`
	BillTo        *BillTo          `json:"billTo,omitempty"`
	Items         []LineItem       `json:"items,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	PaymentTerms  *string          `json:"paymentTerms,omitempty"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	Status        *string          `json:"status,omitempty"`
}

// ListInvoicesParams narrows GET /v1/invoices
type ListInvoicesParams struct {
	Status string
	Limit  *int
	Offset *int
}

// Pagination echoes the applied paging
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListInvoicesResponse is the body of GET /v1/invoices
type ListInvoicesResponse struct {
	Items      []*Invoice `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// PreviewResponse carries the server-computed display totals of a draft
type PreviewResponse struct {
	Items    []LineItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	TaxTotal decimal.Decimal `json:"taxTotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

type previewRequest struct {
	Items    []LineItem      `json:"items"`
	Discount decimal.Decimal `json:"discount"`
}

// CreateInvoice creates an invoice owned by the authenticated user
func (c *Client) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	var out Invoice
	if err := c.do(ctx, http.MethodPost, "/v1/invoices", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInvoice fetches a single invoice by ID
func (c *Client) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	var out Invoice
	if err := c.do(ctx, http.MethodGet, "/v1/invoices/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvoices lists the authenticated user's invoices
func (c *Client) ListInvoices(ctx context.Context, params *ListInvoicesParams) (*ListInvoicesResponse, error) {
	path := "/v1/invoices"
	if params != nil {
		query := url.Values{}
		if params.Status != "" {
			query.Set("status", params.Status)
		}
		if params.Limit != nil {
			query.Set("limit", strconv.Itoa(*params.Limit))
		}
		if params.Offset != nil {
			query.Set("offset", strconv.Itoa(*params.Offset))
		}
		if encoded := query.Encode(); encoded != "" {
			path += "?" + encoded
		}
	}

	var out ListInvoicesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateInvoice applies a partial update to an invoice
func (c *Client) UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (*Invoice, error) {
	var out Invoice
	if err := c.do(ctx, http.MethodPut, "/v1/invoices/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInvoice permanently deletes an invoice
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/invoices/"+url.PathEscape(id), nil, nil)
}

// PreviewInvoice asks the server to compute a draft's totals
func (c *Client) PreviewInvoice(ctx context.Context, items []LineItem, discount decimal.Decimal) (*PreviewResponse, error) {
	var out PreviewResponse
	req := previewRequest{Items: items, Discount: discount}
	if err := c.do(ctx, http.MethodPost, "/v1/invoices/preview", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PreviewTotals computes a draft's display totals locally with the same
// calculator the server uses, without any network round trip
func PreviewTotals(items []LineItem, discount decimal.Decimal) billing.Totals {
	billingItems := make([]billing.LineItem, len(items))
	for i, item := range items {
		billingItems[i] = billing.LineItem{
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TaxPercent: item.TaxPercent,
		}
	}
	return billing.Compute(billingItems, discount).Round()
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
		var envelope errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
			apiErr.Message = envelope.Error.Message
			apiErr.Details = envelope.Error.Details
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
