package service

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/invobill/invobill/internal/api/dto"
	ierr "github.com/invobill/invobill/internal/errors"
	"github.com/invobill/invobill/internal/testutil"
	"github.com/invobill/invobill/internal/types"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service InvoiceService
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewInvoiceService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		InvoiceRepo: stores.InvoiceRepo,
		UserRepo:    stores.UserRepo,
	})
}

func (s *InvoiceServiceSuite) newCreateRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		BillFrom: dto.BillFromRequest{
			BusinessName: "Example Consulting",
			Email:        "billing@example.com",
		},
		BillTo: dto.BillToRequest{
			ClientName: "Acme Corp",
			Email:      "ap@acme.test",
		},
		Items: []dto.LineItemRequest{
			{
				Name:       "Consulting hours",
				Quantity:   decimal.NewFromInt(2),
				UnitPrice:  decimal.NewFromInt(100),
				TaxPercent: decimal.NewFromInt(10),
			},
		},
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoiceComputesTotals() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.NotNil(resp)

	s.True(resp.Subtotal.Equal(decimal.NewFromInt(200)), "subtotal %s", resp.Subtotal)
	s.True(resp.TaxTotal.Equal(decimal.NewFromInt(20)), "tax total %s", resp.TaxTotal)
	s.True(resp.Total.Equal(decimal.NewFromInt(220)), "total %s", resp.Total)

	s.Len(resp.LineItems, 1)
	s.True(resp.LineItems[0].Total.Equal(decimal.NewFromInt(220)))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceAssignsSequentialNumbers() {
	first, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.Equal("INV-00001", first.InvoiceNumber)

	second, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.Equal("INV-00002", second.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceKeepsClientNumber() {
	req := s.newCreateRequest()
	req.InvoiceNumber = "CUSTOM-42"

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.Equal("CUSTOM-42", resp.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceDefaults() {
	before := time.Now().UTC()
	resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	s.False(resp.InvoiceDate.Before(before))
	s.True(resp.DueDate.Equal(resp.InvoiceDate), "due date defaults to invoice date")
	s.Equal(types.PaymentTermsNet15, resp.PaymentTerms)
	s.Equal(types.InvoiceStatusDraft, resp.Status)
	s.Equal(testutil.TestUserID, resp.OwnerID)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceAttachesOwner() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	s.Require().NotNil(resp.Owner)
	s.Equal(testutil.TestUserID, resp.Owner.ID)
	s.Equal("ada@example.com", resp.Owner.Email)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceDiscountFloorsAtZero() {
	req := s.newCreateRequest()
	req.Items = []dto.LineItemRequest{
		{
			Name:      "Small job",
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(50),
		},
	}
	req.Discount = decimal.NewFromInt(100)

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.True(resp.Total.IsZero(), "total %s", resp.Total)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceInvalidPaymentTerms() {
	req := s.newCreateRequest()
	req.PaymentTerms = "Net 90"

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRequiresCaller() {
	_, err := s.service.CreateInvoice(context.Background(), s.newCreateRequest())
	s.Error(err)
	s.True(ierr.IsUnauthorized(err))
}

func (s *InvoiceServiceSuite) TestGetInvoice() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	got, err := s.service.GetInvoice(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(created.ID, got.ID)
	s.True(got.Total.Equal(created.Total))
	s.Require().NotNil(got.Owner)
	s.Equal(testutil.TestUserID, got.Owner.ID)
}

func (s *InvoiceServiceSuite) TestGetInvoiceNotFound() {
	_, err := s.service.GetInvoice(s.GetContext(), "inv_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestGetInvoiceForeignOwner() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	other := types.SetUserID(context.Background(), "user_someone_else")
	_, err = s.service.GetInvoice(other, created.ID)
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *InvoiceServiceSuite) TestListInvoicesScopedToOwner() {
	_, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	_, err = s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	resp, err := s.service.ListInvoices(s.GetContext(), nil)
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)

	// another caller sees none of them
	other := types.SetUserID(context.Background(), "user_someone_else")
	otherResp, err := s.service.ListInvoices(other, nil)
	s.NoError(err)
	s.Len(otherResp.Items, 0)
	s.Equal(0, otherResp.Pagination.Total)
}

func (s *InvoiceServiceSuite) TestListInvoicesPagination() {
	for i := 0; i < 3; i++ {
		_, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
		s.NoError(err)
	}

	resp, err := s.service.ListInvoices(s.GetContext(), &types.InvoiceFilter{Limit: lo.ToPtr(2)})
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(3, resp.Pagination.Total)
	s.Equal(2, resp.Pagination.Limit)
}

func (s *InvoiceServiceSuite) TestListInvoicesTrimsOwnerProfile() {
	_, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	resp, err := s.service.ListInvoices(s.GetContext(), nil)
	s.NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Require().NotNil(resp.Items[0].Owner)
	s.Equal("ada@example.com", resp.Items[0].Owner.Email)
	s.Empty(resp.Items[0].Owner.BusinessName)
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceReplacesItemsAndRecomputes() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	updated, err := s.service.UpdateInvoice(s.GetContext(), created.ID, dto.UpdateInvoiceRequest{
		Items: []dto.LineItemRequest{
			{
				Name:       "Revised work",
				Quantity:   decimal.NewFromInt(3),
				UnitPrice:  decimal.NewFromInt(80),
				TaxPercent: decimal.NewFromInt(20),
			},
		},
	})
	s.NoError(err)

	s.Len(updated.LineItems, 1)
	s.Equal("Revised work", updated.LineItems[0].Name)
	s.True(updated.Subtotal.Equal(decimal.NewFromInt(240)), "subtotal %s", updated.Subtotal)
	s.True(updated.TaxTotal.Equal(decimal.NewFromInt(48)), "tax total %s", updated.TaxTotal)
	s.True(updated.Total.Equal(decimal.NewFromInt(288)), "total %s", updated.Total)
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceDiscountOnlyRecomputes() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.True(created.Total.Equal(decimal.NewFromInt(220)))

	discount := decimal.NewFromInt(20)
	updated, err := s.service.UpdateInvoice(s.GetContext(), created.ID, dto.UpdateInvoiceRequest{
		Discount: &discount,
	})
	s.NoError(err)

	s.True(updated.Discount.Equal(discount))
	s.True(updated.Subtotal.Equal(created.Subtotal))
	s.True(updated.Total.Equal(decimal.NewFromInt(200)), "total %s", updated.Total)
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceWithoutItemsOrDiscountKeepsTotals() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	notes := "thanks for your business"
	updated, err := s.service.UpdateInvoice(s.GetContext(), created.ID, dto.UpdateInvoiceRequest{
		Notes: &notes,
	})
	s.NoError(err)

	s.Equal(notes, updated.Notes)
	s.True(updated.Subtotal.Equal(created.Subtotal))
	s.True(updated.TaxTotal.Equal(created.TaxTotal))
	s.True(updated.Total.Equal(created.Total))
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceDueDateFollowsInvoiceDate() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	newDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	updated, err := s.service.UpdateInvoice(s.GetContext(), created.ID, dto.UpdateInvoiceRequest{
		InvoiceDate: &newDate,
	})
	s.NoError(err)

	s.True(updated.InvoiceDate.Equal(newDate))
	s.True(updated.DueDate.Equal(newDate))
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceForeignOwner() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	other := types.SetUserID(context.Background(), "user_someone_else")
	notes := "hijacked"
	_, err = s.service.UpdateInvoice(other, created.ID, dto.UpdateInvoiceRequest{Notes: &notes})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))

	// stored invoice untouched
	got, err := s.service.GetInvoice(s.GetContext(), created.ID)
	s.NoError(err)
	s.Empty(got.Notes)
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceNotFound() {
	notes := "nothing here"
	_, err := s.service.UpdateInvoice(s.GetContext(), "inv_missing", dto.UpdateInvoiceRequest{Notes: &notes})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestDeleteInvoice() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	s.NoError(s.service.DeleteInvoice(s.GetContext(), created.ID))

	_, err = s.service.GetInvoice(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestDeleteInvoiceNotFound() {
	err := s.service.DeleteInvoice(s.GetContext(), "inv_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestDeleteInvoiceForeignOwner() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	other := types.SetUserID(context.Background(), "user_someone_else")
	err = s.service.DeleteInvoice(other, created.ID)
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))

	_, err = s.service.GetInvoice(s.GetContext(), created.ID)
	s.NoError(err)
}

func (s *InvoiceServiceSuite) TestPreviewInvoice() {
	resp, err := s.service.PreviewInvoice(s.GetContext(), dto.PreviewInvoiceRequest{
		Items: []dto.LineItemRequest{
			{
				Name:       "Design",
				Quantity:   decimal.NewFromFloat(2.5),
				UnitPrice:  decimal.NewFromFloat(99.99),
				TaxPercent: decimal.NewFromFloat(8.25),
			},
		},
		Discount: decimal.NewFromInt(10),
	})
	s.NoError(err)

	s.True(resp.Subtotal.Equal(decimal.NewFromFloat(249.98)), "subtotal %s", resp.Subtotal)
	s.True(resp.TaxTotal.Equal(decimal.NewFromFloat(20.62)), "tax total %s", resp.TaxTotal)
	s.True(resp.Total.Equal(decimal.NewFromFloat(260.60)), "total %s", resp.Total)
	s.Require().Len(resp.Items, 1)
	s.True(resp.Items[0].Total.Equal(decimal.NewFromFloat(270.60)), "item total %s", resp.Items[0].Total)
}

func (s *InvoiceServiceSuite) TestPreviewInvoiceEmptyDraft() {
	resp, err := s.service.PreviewInvoice(s.GetContext(), dto.PreviewInvoiceRequest{})
	s.NoError(err)
	s.True(resp.Subtotal.IsZero())
	s.True(resp.TaxTotal.IsZero())
	s.True(resp.Total.IsZero())
}
