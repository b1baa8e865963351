package invoice

import (
	"fmt"

	ierr "github.com/invobill/invobill/internal/errors"
)

var (
	// ErrInvoiceNotFound is returned when an invoice does not exist
	ErrInvoiceNotFound = ierr.NewError("invoice not found").
				WithHint("Invoice not found").
				Mark(ierr.ErrNotFound)

	// ErrNotOwner is returned when the caller does not own the invoice
	ErrNotOwner = ierr.NewError("invoice does not belong to caller").
			WithHint("You do not have access to this invoice").
			Mark(ierr.ErrPermissionDenied)
)

// NewValidationError builds a field-level invoice validation error
func NewValidationError(field, message string) error {
	return ierr.NewErrorf("invoice validation failed: %s %s", field, message).
		WithHintf("%s %s", field, message).
		WithReportableDetails(map[string]any{"field": field}).
		Mark(ierr.ErrValidation)
}

// FormatInvoiceNumber renders a sequence value as a display invoice number
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("INV-%05d", seq)
}
