package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

// Referral records a discount claim for an email address that is not yet a
// user. It is COMPLETED the moment the discounted invoice is created, not
// when that invoice is paid. A referred email may be COMPLETED at most once;
// the migration adds a partial unique index on (referred_email) WHERE
// status = 'COMPLETED' so two racing claims cannot both commit.
type Referral struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	ReferrerID    snowflake.ID  `gorm:"not null;index" json:"referrer_id"`
	ReferredEmail string        `gorm:"not null;index" json:"referred_email"`
	Status        string        `gorm:"not null;default:PENDING" json:"status"`
	InvoiceID     *snowflake.ID `gorm:"index" json:"invoice_id,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
