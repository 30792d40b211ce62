package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusUnpaid = "Unpaid"
	StatusPaid   = "Paid"
)

// Invoice is the billing record tied 1:1 to a service request. It is created
// in the same transaction as its request and only payment verification moves
// it to Paid.
type Invoice struct {
	ID               snowflake.ID  `gorm:"primaryKey" json:"id"`
	UserID           snowflake.ID  `gorm:"not null;index" json:"user_id"`
	ServiceRequestID snowflake.ID  `gorm:"not null;uniqueIndex" json:"service_request_id"`
	Amount           float64       `gorm:"not null" json:"amount"`
	Currency         string        `gorm:"not null;default:NGN" json:"currency"`
	Status           string        `gorm:"not null;default:Unpaid" json:"status"`
	DueDate          time.Time     `gorm:"not null" json:"due_date"`
	PaymentReference *string       `gorm:"index" json:"payment_reference,omitempty"`
	PaymentMethod    *string       `json:"payment_method,omitempty"`
	ReferralID       *snowflake.ID `gorm:"index" json:"referral_id,omitempty"`
	CreatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
