package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	invoicedomain "github.com/brandloom/brandloom/internal/invoice/domain"
	invoicerepository "github.com/brandloom/brandloom/internal/invoice/repository"
	"github.com/brandloom/brandloom/internal/payment/domain"
)

type gatewayStub struct {
	initCalls   int
	lastAmount  int64
	lastEmail   string
	lastRef     string
	verifyOK    bool
	verifyCalls int
}

func (g *gatewayStub) Initialize(ctx context.Context, email string, amountMinor int64, reference string) (domain.InitializeResult, error) {
	g.initCalls++
	g.lastEmail = email
	g.lastAmount = amountMinor
	g.lastRef = reference
	return domain.InitializeResult{
		AuthorizationURL: "https://checkout.paystack.com/abc",
		Reference:        reference,
	}, nil
}

func (g *gatewayStub) Verify(ctx context.Context, reference string) (bool, error) {
	g.verifyCalls++
	return g.verifyOK, nil
}

func setupPaymentTest(t *testing.T) (*gorm.DB, *gatewayStub, domain.Service, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&invoicedomain.Invoice{}))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	gateway := &gatewayStub{verifyOK: true}
	svc := New(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		Invoices: invoicerepository.Provide(),
		Gateway:  gateway,
	})
	return conn, gateway, svc, node
}

func seedInvoice(t *testing.T, conn *gorm.DB, node *snowflake.Node, amount float64, status string) invoicedomain.Invoice {
	t.Helper()
	invoice := invoicedomain.Invoice{
		ID:               node.Generate(),
		UserID:           node.Generate(),
		ServiceRequestID: node.Generate(),
		Amount:           amount,
		Currency:         "NGN",
		Status:           status,
		DueDate:          time.Now().UTC().AddDate(0, 0, 7),
	}
	require.NoError(t, conn.Create(&invoice).Error)
	return invoice
}

func TestInitializeTransactionConvertsToKobo(t *testing.T) {
	conn, gateway, svc, node := setupPaymentTest(t)
	invoice := seedInvoice(t, conn, node, 1250.55, invoicedomain.StatusUnpaid)

	principal := domain.Principal{ID: invoice.UserID.String(), Email: "client@example.com"}
	result, err := svc.InitializeTransaction(context.Background(), principal, invoice.ID.String())
	require.NoError(t, err)

	assert.Equal(t, int64(125055), gateway.lastAmount)
	assert.Equal(t, "client@example.com", gateway.lastEmail)
	assert.NotEmpty(t, result.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc", result.AuthorizationURL)

	var reloaded invoicedomain.Invoice
	require.NoError(t, conn.First(&reloaded, "id = ?", invoice.ID).Error)
	require.NotNil(t, reloaded.PaymentReference)
	assert.Equal(t, result.Reference, *reloaded.PaymentReference)
}

func TestInitializeTransactionRejectsNonOwner(t *testing.T) {
	conn, gateway, svc, node := setupPaymentTest(t)
	invoice := seedInvoice(t, conn, node, 100, invoicedomain.StatusUnpaid)

	principal := domain.Principal{ID: node.Generate().String(), Email: "other@example.com"}
	_, err := svc.InitializeTransaction(context.Background(), principal, invoice.ID.String())
	require.ErrorIs(t, err, invoicedomain.ErrNotOwner)
	assert.Zero(t, gateway.initCalls)
}

func TestInitializeTransactionRejectsPaidInvoice(t *testing.T) {
	conn, gateway, svc, node := setupPaymentTest(t)
	invoice := seedInvoice(t, conn, node, 100, invoicedomain.StatusPaid)

	principal := domain.Principal{ID: invoice.UserID.String(), Email: "client@example.com"}
	_, err := svc.InitializeTransaction(context.Background(), principal, invoice.ID.String())
	require.ErrorIs(t, err, invoicedomain.ErrAlreadyPaid)
	assert.Zero(t, gateway.initCalls)
}

func TestVerifyTransactionMarksInvoicePaid(t *testing.T) {
	conn, _, svc, node := setupPaymentTest(t)
	invoice := seedInvoice(t, conn, node, 500, invoicedomain.StatusUnpaid)

	reference := "ref-123"
	require.NoError(t, conn.Model(&invoicedomain.Invoice{}).
		Where("id = ?", invoice.ID).
		Update("payment_reference", reference).Error)

	result, err := svc.VerifyTransaction(context.Background(), reference)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusPaid, result.Status)

	var reloaded invoicedomain.Invoice
	require.NoError(t, conn.First(&reloaded, "id = ?", invoice.ID).Error)
	assert.Equal(t, invoicedomain.StatusPaid, reloaded.Status)
	require.NotNil(t, reloaded.PaymentMethod)
	assert.Equal(t, "Paystack", *reloaded.PaymentMethod)
}

func TestVerifyTransactionFailsOnGatewayDecline(t *testing.T) {
	conn, gateway, svc, node := setupPaymentTest(t)
	gateway.verifyOK = false

	invoice := seedInvoice(t, conn, node, 500, invoicedomain.StatusUnpaid)
	reference := "ref-declined"
	require.NoError(t, conn.Model(&invoicedomain.Invoice{}).
		Where("id = ?", invoice.ID).
		Update("payment_reference", reference).Error)

	_, err := svc.VerifyTransaction(context.Background(), reference)
	require.ErrorIs(t, err, domain.ErrVerificationFailed)

	var reloaded invoicedomain.Invoice
	require.NoError(t, conn.First(&reloaded, "id = ?", invoice.ID).Error)
	assert.Equal(t, invoicedomain.StatusUnpaid, reloaded.Status)
}
