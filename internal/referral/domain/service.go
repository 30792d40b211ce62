package domain

import (
	"context"
	"errors"
)

type Service interface {
	// ValidateEmail reports whether the email is still eligible for a
	// referral discount. ErrAlreadyReferred when a COMPLETED referral exists.
	ValidateEmail(ctx context.Context, email string) error
}

var (
	ErrInvalidEmail    = errors.New("invalid_referral_email")
	ErrAlreadyReferred = errors.New("referral_email_used")
)
