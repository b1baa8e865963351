package service

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/invobill/invobill/internal/api/dto"
	"github.com/invobill/invobill/internal/domain/invoice"
	"github.com/invobill/invobill/internal/domain/user"
	ierr "github.com/invobill/invobill/internal/errors"
	"github.com/invobill/invobill/internal/logger"
	"github.com/invobill/invobill/internal/types"
)

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
	PreviewInvoice(ctx context.Context, req dto.PreviewInvoiceRequest) (*dto.PreviewInvoiceResponse, error)
}

type invoiceService struct {
	logger      *logger.Logger
	invoiceRepo invoice.Repository
	userRepo    user.Repository
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		logger:      params.Logger,
		invoiceRepo: params.InvoiceRepo,
		userRepo:    params.UserRepo,
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	ownerID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv := req.ToInvoice(ctx)

	if inv.InvoiceNumber == "" {
		number, err := s.invoiceRepo.NextInvoiceNumber(ctx, ownerID)
		if err != nil {
			// the sequence counter being unreachable must not block invoicing
			s.logger.Warnw("falling back to short invoice number",
				"error", err,
				"owner_id", ownerID)
			number = types.GenerateShortInvoiceNumber()
		}
		inv.InvoiceNumber = number
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		s.logger.Errorw("failed to create invoice",
			"error", err,
			"owner_id", ownerID,
			"invoice_number", inv.InvoiceNumber)
		return nil, err
	}

	return dto.NewInvoiceResponse(inv, s.lookupOwner(ctx, ownerID)), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	ownerID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := s.invoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.OwnerID != ownerID {
		return nil, invoice.ErrNotOwner
	}

	return dto.NewInvoiceResponse(inv, s.lookupOwner(ctx, ownerID)), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	ownerID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if filter == nil {
		filter = &types.InvoiceFilter{}
	}
	filter.OwnerID = ownerID

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	// list items carry the owner's name and email only
	var owner *user.User
	if full := s.lookupOwner(ctx, ownerID); full != nil {
		owner = &user.User{ID: full.ID, Name: full.Name, Email: full.Email}
	}

	items := lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
		return dto.NewInvoiceResponse(inv, owner)
	})

	return &dto.ListInvoicesResponse{
		Items: items,
		Pagination: types.PaginationResponse{
			Total:  count,
			Limit:  filter.GetLimit(),
			Offset: filter.GetOffset(),
		},
	}, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	ownerID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.invoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.OwnerID != ownerID {
		return nil, invoice.ErrNotOwner
	}

	if recompute := req.Apply(inv); recompute {
		inv.RecomputeTotals()
	}
	inv.UpdatedAt = time.Now().UTC()

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		s.logger.Errorw("failed to update invoice",
			"error", err,
			"invoice_id", id)
		return nil, err
	}

	return dto.NewInvoiceResponse(inv, s.lookupOwner(ctx, ownerID)), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	ownerID, err := callerID(ctx)
	if err != nil {
		return err
	}

	inv, err := s.invoiceRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if inv.OwnerID != ownerID {
		return invoice.ErrNotOwner
	}

	return s.invoiceRepo.Delete(ctx, id)
}

func (s *invoiceService) PreviewInvoice(ctx context.Context, req dto.PreviewInvoiceRequest) (*dto.PreviewInvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return dto.NewPreviewInvoiceResponse(&req), nil
}

// lookupOwner fetches the owning user's profile for response population.
// A missing profile is logged but never fails the invoice operation.
func (s *invoiceService) lookupOwner(ctx context.Context, ownerID string) *user.User {
	owner, err := s.userRepo.Get(ctx, ownerID)
	if err != nil {
		s.logger.Warnw("failed to load invoice owner",
			"error", err,
			"owner_id", ownerID)
		return nil
	}
	return owner
}

func callerID(ctx context.Context) (string, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return "", ierr.NewError("missing caller identity").
			WithHint("Authentication required").
			Mark(ierr.ErrUnauthorized)
	}
	return userID, nil
}
