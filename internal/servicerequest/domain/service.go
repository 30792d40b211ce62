package domain

import (
	"context"
	"errors"
	"time"

	invoicedomain "github.com/brandloom/brandloom/internal/invoice/domain"
	"github.com/brandloom/brandloom/pkg/db/pagination"
)

// Principal identifies the caller for per-instance authorization checks.
type Principal struct {
	ID    string
	Role  string
	Admin bool
}

// SelectedPlan is the plan the client picked at intake. For referral flows the
// price is ignored and the canonical plan price is read from the catalog.
type SelectedPlan struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type InitializeRequest struct {
	UserID       string
	ServiceID    string
	SelectedPlan SelectedPlan
	FormData     map[string]interface{}
	StartDate    time.Time
	EndDate      time.Time
}

type InitializeResult struct {
	Request ServiceRequest         `json:"service_request"`
	Invoice invoicedomain.Invoice  `json:"invoice"`
}

type ListRequest struct {
	PageToken string
	PageSize  int
}

type ListResponse struct {
	pagination.PageInfo
	Requests []ServiceRequest `json:"service_requests"`
}

// MilestoneSpec describes one milestone to create when a request is activated.
type MilestoneSpec struct {
	Title    string    `json:"title"`
	Deadline time.Time `json:"deadline"`
}

type Service interface {
	// Initialize creates the request (PENDING_APPROVAL) and its unpaid
	// invoice in one transaction.
	Initialize(ctx context.Context, req InitializeRequest) (InitializeResult, error)

	// InitializeWithReferral applies the referral discount to the canonical
	// plan price and records the completed referral alongside the request and
	// invoice, all in one transaction.
	InitializeWithReferral(ctx context.Context, referrerID string, req InitializeRequest, referredEmail string) (InitializeResult, error)

	// UpdateStatus moves a pending request to ACTIVE or DECLINED. Activation
	// requires at least one milestone spec and inserts them atomically with
	// the status change.
	UpdateStatus(ctx context.Context, requestID, status string, specs []MilestoneSpec) (ServiceRequest, error)

	GetByID(ctx context.Context, principal Principal, id string) (ServiceRequest, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	ListByUser(ctx context.Context, userID string) ([]ServiceRequest, error)
}

var (
	ErrNotFound           = errors.New("service_request_not_found")
	ErrNotOwner           = errors.New("service_request_not_owner")
	ErrRelatedNotFound    = errors.New("related_record_not_found")
	ErrInvalidDates       = errors.New("invalid_request_dates")
	ErrInvalidPrice       = errors.New("invalid_plan_price")
	ErrInvalidStatus      = errors.New("invalid_request_status")
	ErrMilestonesRequired = errors.New("milestones_required")
	ErrInvalidID          = errors.New("invalid_request_id")
	ErrInvalidPageToken   = errors.New("invalid_page_token")
)
