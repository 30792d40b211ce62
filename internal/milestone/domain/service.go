package domain

import (
	"context"
	"errors"
	"time"
)

// Deliverable holds the artifact an admin attaches to a milestone. At least
// one of FileURL or LinkURL must be set.
type Deliverable struct {
	FileURL  string
	FileName string
	LinkURL  string
}

type CreateMilestoneRequest struct {
	ServiceRequestID string
	Title            string
	Deadline         time.Time
}

type UpdateMilestoneRequest struct {
	ID       string
	Title    string
	Deadline time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateMilestoneRequest) (Milestone, error)
	GetByID(ctx context.Context, id string) (Milestone, error)
	ListByRequest(ctx context.Context, requestID string) ([]Milestone, error)
	Update(ctx context.Context, req UpdateMilestoneRequest) (Milestone, error)
	Delete(ctx context.Context, id string) error

	// SubmitDeliverable attaches the artifact and moves the milestone to
	// PENDING_CLIENT_APPROVAL, clearing any previous rejection reason.
	SubmitDeliverable(ctx context.Context, id string, deliverable Deliverable) (Milestone, error)

	// Review records the client verdict. Only the owner of the parent service
	// request may review, and only while the milestone is awaiting approval.
	// When the last milestone of a request is approved the request itself is
	// marked COMPLETED.
	Review(ctx context.Context, id, reviewerID, status, reason string) (Milestone, error)
}

var (
	ErrNotFound            = errors.New("milestone_not_found")
	ErrNotOwner            = errors.New("milestone_not_owner")
	ErrNotReviewable       = errors.New("milestone_not_reviewable")
	ErrInvalidReviewStatus = errors.New("invalid_review_status")
	ErrReasonRequired      = errors.New("rejection_reason_required")
	ErrDeliverableRequired = errors.New("deliverable_required")
	ErrInvalidTitle        = errors.New("invalid_milestone_title")
	ErrInvalidDeadline     = errors.New("invalid_milestone_deadline")
	ErrInvalidID           = errors.New("invalid_milestone_id")
)
