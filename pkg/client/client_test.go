package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/invobill/invobill/internal/api"
	v1 "github.com/invobill/invobill/internal/api/v1"
	"github.com/invobill/invobill/internal/auth"
	"github.com/invobill/invobill/internal/config"
	"github.com/invobill/invobill/internal/domain/user"
	"github.com/invobill/invobill/internal/logger"
	"github.com/invobill/invobill/internal/service"
	"github.com/invobill/invobill/internal/testutil"
)

func setupServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	require.NoError(t, err)

	invoiceStore := testutil.NewInMemoryInvoiceStore()
	userStore := testutil.NewInMemoryUserStore()
	require.NoError(t, userStore.Create(context.Background(), &user.User{
		ID:    testutil.TestUserID,
		Name:  "Ada Example",
		Email: "ada@example.com",
	}))

	invoiceService := service.NewInvoiceService(service.ServiceParams{
		Logger:      log,
		Config:      cfg,
		InvoiceRepo: invoiceStore,
		UserRepo:    userStore,
	})

	handlers := api.NewHandlers(v1.NewInvoiceHandler(invoiceService, log), v1.NewHealthHandler())
	srv := httptest.NewServer(api.NewRouter(handlers, cfg, log))
	t.Cleanup(srv.Close)

	token, err := auth.NewProvider(cfg).GenerateToken(context.Background(), testutil.TestUserID)
	require.NoError(t, err)

	return srv, New(srv.URL, token)
}

func sampleItems() []LineItem {
	return []LineItem{
		{
			Name:       "Consulting hours",
			Quantity:   decimal.NewFromInt(2),
			UnitPrice:  decimal.NewFromInt(100),
			TaxPercent: decimal.NewFromInt(10),
		},
	}
}

func TestClientInvoiceLifecycle(t *testing.T) {
	_, c := setupServer(t)
	ctx := context.Background()

	created, err := c.CreateInvoice(ctx, CreateInvoiceRequest{
		BillFrom: BillFrom{BusinessName: "Example Consulting"},
		BillTo:   BillTo{ClientName: "Acme Corp"},
		Items:    sampleItems(),
	})
	require.NoError(t, err)
	require.Equal(t, "INV-00001", created.InvoiceNumber)
	require.True(t, created.Subtotal.Equal(decimal.NewFromInt(200)))
	require.True(t, created.TaxTotal.Equal(decimal.NewFromInt(20)))
	require.True(t, created.Total.Equal(decimal.NewFromInt(220)))
	require.NotNil(t, created.Owner)
	require.Equal(t, "ada@example.com", created.Owner.Email)

	list, err := c.ListInvoices(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, 1, list.Pagination.Total)

	got, err := c.GetInvoice(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	discount := decimal.NewFromInt(20)
	updated, err := c.UpdateInvoice(ctx, created.ID, UpdateInvoiceRequest{Discount: &discount})
	require.NoError(t, err)
	require.True(t, updated.Total.Equal(decimal.NewFromInt(200)), "total %s", updated.Total)

	require.NoError(t, c.DeleteInvoice(ctx, created.ID))

	_, err = c.GetInvoice(ctx, created.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 404, apiErr.StatusCode)
}

func TestClientPreviewMatchesLocal(t *testing.T) {
	_, c := setupServer(t)

	items := []LineItem{
		{
			Name:       "Design",
			Quantity:   decimal.NewFromFloat(2.5),
			UnitPrice:  decimal.NewFromFloat(99.99),
			TaxPercent: decimal.NewFromFloat(8.25),
		},
	}
	discount := decimal.NewFromInt(10)

	remote, err := c.PreviewInvoice(context.Background(), items, discount)
	require.NoError(t, err)

	local := PreviewTotals(items, discount)
	require.True(t, remote.Subtotal.Equal(local.Subtotal), "subtotal %s vs %s", remote.Subtotal, local.Subtotal)
	require.True(t, remote.TaxTotal.Equal(local.TaxTotal), "tax total %s vs %s", remote.TaxTotal, local.TaxTotal)
	require.True(t, remote.Total.Equal(local.Total), "total %s vs %s", remote.Total, local.Total)
}

func TestClientValidationError(t *testing.T) {
	_, c := setupServer(t)

	_, err := c.CreateInvoice(context.Background(), CreateInvoiceRequest{
		BillFrom: BillFrom{BusinessName: "Example Consulting"},
		// missing client name
		Items: sampleItems(),
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 400, apiErr.StatusCode)
	require.NotEmpty(t, apiErr.Message)
}

func TestClientInvalidToken(t *testing.T) {
	srv, _ := setupServer(t)

	c := New(srv.URL, "not-a-token")
	_, err := c.ListInvoices(context.Background(), nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.StatusCode)
}
