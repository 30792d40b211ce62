package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	invoicedomain "github.com/brandloom/brandloom/internal/invoice/domain"
	"github.com/brandloom/brandloom/internal/payment/domain"
)

const paymentMethod = "Paystack"

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Invoices invoicedomain.Repository
	Gateway  domain.Gateway
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	invoices invoicedomain.Repository
	gateway  domain.Gateway
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		invoices: p.Invoices,
		gateway:  p.Gateway,
	}
}

func (s *Service) InitializeTransaction(ctx context.Context, principal domain.Principal, invoiceID string) (domain.InitializeResult, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil || id == 0 {
		return domain.InitializeResult{}, invoicedomain.ErrInvalidID
	}

	invoice, err := s.invoices.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.InitializeResult{}, err
	}
	if invoice == nil {
		return domain.InitializeResult{}, invoicedomain.ErrNotFound
	}
	if invoice.UserID.String() != principal.ID {
		return domain.InitializeResult{}, invoicedomain.ErrNotOwner
	}
	if invoice.Status == invoicedomain.StatusPaid {
		return domain.InitializeResult{}, invoicedomain.ErrAlreadyPaid
	}

	amountKobo := int64(math.Round(invoice.Amount * 100))
	reference := uuid.NewString()

	// The reference goes on the invoice before the gateway call so a
	// callback can always be matched back.
	if err := s.invoices.SetPaymentReference(ctx, s.db, invoice.ID, reference); err != nil {
		return domain.InitializeResult{}, err
	}

	result, err := s.gateway.Initialize(ctx, principal.Email, amountKobo, reference)
	if err != nil {
		return domain.InitializeResult{}, err
	}
	if result.Reference == "" {
		result.Reference = reference
	}

	s.log.Info("payment initialized",
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int64("amount_kobo", amountKobo),
	)
	return result, nil
}

func (s *Service) VerifyTransaction(ctx context.Context, reference string) (domain.VerifyResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return domain.VerifyResult{}, domain.ErrInvalidReference
	}

	ok, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return domain.VerifyResult{}, err
	}
	if !ok {
		return domain.VerifyResult{}, domain.ErrVerificationFailed
	}

	invoice, err := s.invoices.FindByReference(ctx, s.db, reference)
	if err != nil {
		return domain.VerifyResult{}, err
	}
	if invoice == nil {
		return domain.VerifyResult{}, invoicedomain.ErrNotFound
	}

	if invoice.Status != invoicedomain.StatusPaid {
		if err := s.invoices.MarkPaid(ctx, s.db, invoice.ID, paymentMethod); err != nil {
			return domain.VerifyResult{}, err
		}
	}

	s.log.Info("payment verified", zap.String("invoice_id", invoice.ID.String()))
	return domain.VerifyResult{
		InvoiceID: invoice.ID.String(),
		Status:    invoicedomain.StatusPaid,
		Message:   "Payment was successful.",
	}, nil
}
