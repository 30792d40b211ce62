package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	catalogdomain "github.com/brandloom/brandloom/internal/catalog/domain"
	invoicedomain "github.com/brandloom/brandloom/internal/invoice/domain"
	milestonedomain "github.com/brandloom/brandloom/internal/milestone/domain"
	userdomain "github.com/brandloom/brandloom/internal/user/domain"
)

// Service request lifecycle. PENDING_APPROVAL is the entry state; an admin
// moves it to ACTIVE (with milestones) or DECLINED, and approval of the last
// milestone moves it to COMPLETED.
const (
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusActive          = "ACTIVE"
	StatusDeclined        = "DECLINED"
	StatusCompleted       = "COMPLETED"
)

type ServiceRequest struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID      `gorm:"not null;index" json:"user_id"`
	ServiceID snowflake.ID      `gorm:"not null;index" json:"service_id"`
	PlanID    snowflake.ID      `gorm:"not null" json:"plan_id"`
	PlanName  string            `gorm:"not null" json:"plan_name"`
	PlanPrice float64           `gorm:"not null" json:"plan_price"`
	FormData  datatypes.JSONMap `json:"form_data"`
	StartDate time.Time         `gorm:"not null" json:"start_date"`
	EndDate   time.Time         `gorm:"not null" json:"end_date"`
	Status    string            `gorm:"not null;default:PENDING_APPROVAL" json:"status"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	User       *userdomain.User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Service    *catalogdomain.Service        `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Invoice    *invoicedomain.Invoice        `gorm:"foreignKey:ServiceRequestID" json:"invoice,omitempty"`
	Milestones []milestonedomain.Milestone   `gorm:"foreignKey:ServiceRequestID" json:"milestones,omitempty"`
}
