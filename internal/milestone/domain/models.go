package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Milestone review states. PENDING_ADMIN_UPLOAD and PENDING_CLIENT_APPROVAL
// alternate until the client approves; REJECTED is recoverable by a fresh
// deliverable submission, APPROVED is terminal.
const (
	StatusPendingAdminUpload    = "PENDING_ADMIN_UPLOAD"
	StatusPendingClientApproval = "PENDING_CLIENT_APPROVAL"
	StatusApproved              = "APPROVED"
	StatusRejected              = "REJECTED"
)

type Milestone struct {
	ID                  snowflake.ID `gorm:"primaryKey" json:"id"`
	ServiceRequestID    snowflake.ID `gorm:"not null;index" json:"service_request_id"`
	Title               string       `gorm:"not null" json:"title"`
	Deadline            time.Time    `gorm:"not null" json:"deadline"`
	Status              string       `gorm:"not null;default:PENDING_ADMIN_UPLOAD" json:"status"`
	DeliverableFileURL  *string      `json:"deliverable_file_url,omitempty"`
	DeliverableFileName *string      `json:"deliverable_file_name,omitempty"`
	DeliverableLinkURL  *string      `json:"deliverable_link_url,omitempty"`
	RejectionReason     *string      `json:"rejection_reason,omitempty"`
	CreatedAt           time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
