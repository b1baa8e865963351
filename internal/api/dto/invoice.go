package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invobill/invobill/internal/domain/invoice"
	"github.com/invobill/invobill/internal/domain/user"
	"github.com/invobill/invobill/internal/types"
	"github.com/invobill/invobill/internal/validator"
	"github.com/invobill/invobill/pkg/billing"
)

// LineItemRequest carries one line item of a draft. The decimal fields
// unmarshal from JSON numbers or numeric strings; anything unparsable fails
// the bind and surfaces as a validation error, on every endpoint alike.
type LineItemRequest struct {
	Name       string          `json:"name" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TaxPercent decimal.Decimal `json:"taxPercent"`
}

func (r LineItemRequest) toDomain() *invoice.LineItem {
	return &invoice.LineItem{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
		Name:       r.Name,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		TaxPercent: r.TaxPercent,
	}
}

func (r LineItemRequest) toBilling() billing.LineItem {
	return billing.LineItem{
		Name:       r.Name,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		TaxPercent: r.TaxPercent,
	}
}

// BillFromRequest identifies the issuing business
type BillFromRequest struct {
	BusinessName string `json:"businessName" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
}

// BillToRequest identifies the invoiced client
type BillToRequest struct {
	ClientName string `json:"clientName" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
}

// CreateInvoiceRequest is the body of POST /invoices. InvoiceNumber is
// optional; when absent the server assigns the next number in the owner's
// sequence.
type CreateInvoiceRequest struct {
	InvoiceNumber string              `json:"invoiceNumber"`
	InvoiceDate   *time.Time          `json:"invoiceDate"`
	DueDate       *time.Time          `json:"dueDate"`
	BillFrom      BillFromRequest     `json:"billFrom" validate:"required"`
	BillTo        BillToRequest       `json:"billTo" validate:"required"`
	Items         []LineItemRequest   `json:"items" validate:"dive"`
	Notes         string              `json:"notes"`
	PaymentTerms  types.PaymentTerms  `json:"paymentTerms"`
	Discount      decimal.Decimal     `json:"discount"`
	Status        types.InvoiceStatus `json:"status"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.PaymentTerms != "" {
		return r.PaymentTerms.Validate()
	}
	return nil
}

// ToInvoice converts the request into a domain invoice owned by the caller.
// InvoiceDate defaults to now, DueDate to InvoiceDate, and the derived totals
// are computed from the submitted items and discount.
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context) *invoice.Invoice {
	invoiceDate := time.Now().UTC()
	if r.InvoiceDate != nil {
		invoiceDate = r.InvoiceDate.UTC()
	}

	dueDate := invoiceDate
	if r.DueDate != nil {
		dueDate = r.DueDate.UTC()
	}

	items := make([]*invoice.LineItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = item.toDomain()
	}

	terms := r.PaymentTerms
	if terms == "" {
		terms = types.PaymentTermsNet15
	}

	status := r.Status
	if status == "" {
		status = types.InvoiceStatusDraft
	}

	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		OwnerID:       types.GetUserID(ctx),
		InvoiceNumber: r.InvoiceNumber,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		BillFrom: invoice.BillFrom{
			BusinessName: r.BillFrom.BusinessName,
			Email:        r.BillFrom.Email,
			Address:      r.BillFrom.Address,
			Phone:        r.BillFrom.Phone,
		},
		BillTo: invoice.BillTo{
			ClientName: r.BillTo.ClientName,
			Email:      r.BillTo.Email,
			Address:    r.BillTo.Address,
			Phone:      r.BillTo.Phone,
		},
		LineItems:    items,
		Notes:        r.Notes,
		PaymentTerms: terms,
		Discount:     r.Discount,
		Status:       status,
		BaseModel:    types.GetDefaultBaseModel(),
	}
	inv.RecomputeTotals()

	return inv
}

// UpdateInvoiceRequest is the body of PUT /invoices/:id. All fields are
// optional; absent fields leave the stored value untouched. Totals are
// recomputed when Items is a non-empty array or Discount is supplied.
type UpdateInvoiceRequest struct {
	InvoiceNumber *string              `json:"invoiceNumber"`
	InvoiceDate   *time.Time           `json:"invoiceDate"`
	DueDate       *time.Time           `json:"dueDate"`
	BillFrom      *BillFromRequest     `json:"billFrom"`
	BillTo        *BillToRequest       `json:"billTo"`
	Items         []LineItemRequest    `json:"items" validate:"dive"`
	Notes         *string              `json:"notes"`
	PaymentTerms  *types.PaymentTerms  `json:"paymentTerms"`
	Discount      *decimal.Decimal     `json:"discount"`
	Status        *types.InvoiceStatus `json:"status"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.PaymentTerms != nil {
		return r.PaymentTerms.Validate()
	}
	return nil
}

// Apply folds the partial update into the stored invoice and reports whether
// the derived totals must be recomputed
func (r *UpdateInvoiceRequest) Apply(inv *invoice.Invoice) (recompute bool) {
	if r.InvoiceNumber != nil && *r.InvoiceNumber != "" {
		inv.InvoiceNumber = *r.InvoiceNumber
	}

	if r.InvoiceDate != nil {
		inv.InvoiceDate = r.InvoiceDate.UTC()
	}

	switch {
	case r.DueDate != nil:
		inv.DueDate = r.DueDate.UTC()
	case r.InvoiceDate != nil:
		// due date follows a newly supplied invoice date when not set itself
		inv.DueDate = r.InvoiceDate.UTC()
	}

	if r.BillFrom != nil {
		inv.BillFrom = invoice.BillFrom{
			BusinessName: r.BillFrom.BusinessName,
			Email:        r.BillFrom.Email,
			Address:      r.BillFrom.Address,
			Phone:        r.BillFrom.Phone,
		}
	}

	if r.BillTo != nil {
		inv.BillTo = invoice.BillTo{
			ClientName: r.BillTo.ClientName,
			Email:      r.BillTo.Email,
			Address:    r.BillTo.Address,
			Phone:      r.BillTo.Phone,
		}
	}

	if r.Notes != nil {
		inv.Notes = *r.Notes
	}

	if r.PaymentTerms != nil {
		inv.PaymentTerms = *r.PaymentTerms
	}

	if r.Status != nil {
		inv.Status = *r.Status
	}

	if len(r.Items) > 0 {
		items := make([]*invoice.LineItem, len(r.Items))
		for i, item := range r.Items {
			items[i] = item.toDomain()
		}
		inv.LineItems = items
		recompute = true
	}

	if r.Discount != nil {
		inv.Discount = *r.Discount
		recompute = true
	}

	return recompute
}

// InvoiceResponse is the canonical record returned by every invoice
// endpoint. Owner carries the owning user's profile with credentials
// stripped.
type InvoiceResponse struct {
	*invoice.Invoice
	Owner *UserResponse `json:"user,omitempty"`
}

func NewInvoiceResponse(inv *invoice.Invoice, owner *user.User) *InvoiceResponse {
	return &InvoiceResponse{
		Invoice: inv,
		Owner:   NewUserResponse(owner),
	}
}

// ListInvoicesResponse is the body of GET /invoices
type ListInvoicesResponse struct {
	Items      []*InvoiceResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}

// PreviewInvoiceRequest is the body of POST /invoices/preview: a draft's
// items and discount, nothing else
type PreviewInvoiceRequest struct {
	Items    []LineItemRequest `json:"items" validate:"dive"`
	Discount decimal.Decimal   `json:"discount"`
}

func (r *PreviewInvoiceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToBillingItems converts the draft items for the shared calculator
func (r *PreviewInvoiceRequest) ToBillingItems() []billing.LineItem {
	items := make([]billing.LineItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = item.toBilling()
	}
	return items
}

// PreviewLineItem is one draft item echoed back with its computed total
type PreviewLineItem struct {
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TaxPercent decimal.Decimal `json:"taxPercent"`
	Total      decimal.Decimal `json:"total"`
}

// PreviewInvoiceResponse carries the display-rounded totals for a draft
type PreviewInvoiceResponse struct {
	Items    []PreviewLineItem `json:"items"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	TaxTotal decimal.Decimal   `json:"taxTotal"`
	Discount decimal.Decimal   `json:"discount"`
	Total    decimal.Decimal   `json:"total"`
}

// NewPreviewInvoiceResponse computes a draft's totals with the same
// calculator the lifecycle uses and rounds them for display
func NewPreviewInvoiceResponse(req *PreviewInvoiceRequest) *PreviewInvoiceResponse {
	billingItems := req.ToBillingItems()
	totals := billing.Compute(billingItems, req.Discount).Round()

	items := make([]PreviewLineItem, len(billingItems))
	for i, item := range billingItems {
		items[i] = PreviewLineItem{
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TaxPercent: item.TaxPercent,
			Total:      item.Total().Round(billing.DisplayPlaces),
		}
	}

	return &PreviewInvoiceResponse{
		Items:    items,
		Subtotal: totals.Subtotal,
		TaxTotal: totals.TaxTotal,
		Discount: totals.Discount,
		Total:    totals.Total,
	}
}

// DeleteInvoiceResponse confirms a hard delete
type DeleteInvoiceResponse struct {
	Message string `json:"message"`
}
