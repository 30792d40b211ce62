package domain

import (
	"context"
	"errors"
)

// Principal identifies the paying caller.
type Principal struct {
	ID    string
	Email string
	Admin bool
}

// InitializeResult is what the client needs to hand control to the gateway.
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
	AccessCode       string `json:"access_code,omitempty"`
}

type VerifyResult struct {
	InvoiceID string `json:"invoice_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

type Service interface {
	// InitializeTransaction registers the invoice amount with the gateway
	// and stores the generated reference on the invoice.
	InitializeTransaction(ctx context.Context, principal Principal, invoiceID string) (InitializeResult, error)

	// VerifyTransaction confirms the charge with the gateway and marks the
	// referenced invoice Paid.
	VerifyTransaction(ctx context.Context, reference string) (VerifyResult, error)
}

// Gateway is the outbound payment API surface. Amounts are in the currency's
// minor unit (kobo for NGN).
type Gateway interface {
	Initialize(ctx context.Context, email string, amountMinor int64, reference string) (InitializeResult, error)
	Verify(ctx context.Context, reference string) (bool, error)
}

var (
	ErrVerificationFailed = errors.New("payment_verification_failed")
	ErrInvalidReference   = errors.New("invalid_payment_reference")
)
