package types

import (
	ierr "github.com/invobill/invobill/internal/errors"
)

// InvoiceStatus is a free-form label attached to an invoice (draft, sent,
// paid, ...). It is stored verbatim and never transitioned by the service;
// semantics belong to the consuming UI.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
)

// PaymentTerms is the agreed payment schedule printed on the invoice
type PaymentTerms string

const (
	PaymentTermsNet15        PaymentTerms = "Net 15"
	PaymentTermsNet30        PaymentTerms = "Net 30"
	PaymentTermsFullPay      PaymentTerms = "Full Pay"
	PaymentTermsDueOnReceipt PaymentTerms = "Due on receipt"
)

func (t PaymentTerms) Validate() error {
	switch t {
	case PaymentTermsNet15, PaymentTermsNet30, PaymentTermsFullPay, PaymentTermsDueOnReceipt:
		return nil
	}
	return ierr.NewErrorf("unknown payment terms %q", t).
		WithHint("payment_terms must be one of: Net 15, Net 30, Full Pay, Due on receipt").
		Mark(ierr.ErrValidation)
}

const (
	FilterDefaultLimit = 50
	FilterMaxLimit     = 1000
)

// InvoiceFilter narrows invoice list queries. OwnerID is always set by the
// service from the caller's identity; the remaining fields come from query
// parameters.
type InvoiceFilter struct {
	OwnerID string        `form:"-" json:"-"`
	Status  InvoiceStatus `form:"status" json:"status,omitempty"`
	Limit   *int          `form:"limit" json:"limit,omitempty"`
	Offset  *int          `form:"offset" json:"offset,omitempty"`
}

func (f *InvoiceFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return FilterDefaultLimit
	}
	return *f.Limit
}

func (f *InvoiceFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return 0
	}
	return *f.Offset
}

func (f *InvoiceFilter) Validate() error {
	if f.GetLimit() <= 0 || f.GetLimit() > FilterMaxLimit {
		return ierr.NewError("invalid limit").
			WithHintf("limit must be between 1 and %d", FilterMaxLimit).
			Mark(ierr.ErrValidation)
	}
	if f.GetOffset() < 0 {
		return ierr.NewError("invalid offset").
			WithHint("offset must be non negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaginationResponse echoes the applied paging back to the caller
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
