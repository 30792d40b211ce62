package domain

import (
	"context"
	"errors"
)

// Principal identifies the caller for per-instance authorization checks.
type Principal struct {
	ID    string
	Role  string
	Admin bool
}

type Service interface {
	GetByID(ctx context.Context, principal Principal, id string) (Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]Invoice, error)
}

var (
	ErrNotFound    = errors.New("invoice_not_found")
	ErrNotOwner    = errors.New("invoice_not_owner")
	ErrAlreadyPaid = errors.New("invoice_already_paid")
	ErrInvalidID   = errors.New("invalid_invoice_id")
)
