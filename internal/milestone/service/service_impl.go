package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brandloom/brandloom/internal/milestone/domain"
	requestdomain "github.com/brandloom/brandloom/internal/servicerequest/domain"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Requests requestdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	requests requestdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("milestone.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		requests: p.Requests,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateMilestoneRequest) (domain.Milestone, error) {
	requestID, err := parseID(req.ServiceRequestID)
	if err != nil {
		return domain.Milestone{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Milestone{}, domain.ErrInvalidTitle
	}
	if req.Deadline.IsZero() {
		return domain.Milestone{}, domain.ErrInvalidDeadline
	}

	request, err := s.requests.FindByID(ctx, s.db, requestID)
	if err != nil {
		return domain.Milestone{}, err
	}
	if request == nil {
		return domain.Milestone{}, requestdomain.ErrNotFound
	}

	now := time.Now().UTC()
	milestone := domain.Milestone{
		ID:               s.genID.Generate(),
		ServiceRequestID: requestID,
		Title:            title,
		Deadline:         req.Deadline,
		Status:           domain.StatusPendingAdminUpload,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, &milestone); err != nil {
		return domain.Milestone{}, err
	}
	return milestone, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Milestone, error) {
	milestoneID, err := parseID(id)
	if err != nil {
		return domain.Milestone{}, err
	}

	milestone, err := s.repo.FindByID(ctx, s.db, milestoneID)
	if err != nil {
		return domain.Milestone{}, err
	}
	if milestone == nil {
		return domain.Milestone{}, domain.ErrNotFound
	}
	return *milestone, nil
}

func (s *Service) ListByRequest(ctx context.Context, requestID string) ([]domain.Milestone, error) {
	id, err := parseID(requestID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.FindByRequestID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	milestones := make([]domain.Milestone, 0, len(items))
	for _, item := range items {
		milestones = append(milestones, *item)
	}
	return milestones, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateMilestoneRequest) (domain.Milestone, error) {
	milestoneID, err := parseID(req.ID)
	if err != nil {
		return domain.Milestone{}, err
	}

	milestone, err := s.repo.FindByID(ctx, s.db, milestoneID)
	if err != nil {
		return domain.Milestone{}, err
	}
	if milestone == nil {
		return domain.Milestone{}, domain.ErrNotFound
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		milestone.Title = title
	}
	if !req.Deadline.IsZero() {
		milestone.Deadline = req.Deadline
	}
	milestone.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, milestone); err != nil {
		return domain.Milestone{}, err
	}
	return *milestone, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	milestoneID, err := parseID(id)
	if err != nil {
		return err
	}

	milestone, err := s.repo.FindByID(ctx, s.db, milestoneID)
	if err != nil {
		return err
	}
	if milestone == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, milestoneID)
}

func (s *Service) SubmitDeliverable(ctx context.Context, id string, deliverable domain.Deliverable) (domain.Milestone, error) {
	milestoneID, err := parseID(id)
	if err != nil {
		return domain.Milestone{}, err
	}

	fileURL := strings.TrimSpace(deliverable.FileURL)
	linkURL := strings.TrimSpace(deliverable.LinkURL)
	if fileURL == "" && linkURL == "" {
		return domain.Milestone{}, domain.ErrDeliverableRequired
	}

	milestone, err := s.repo.FindByID(ctx, s.db, milestoneID)
	if err != nil {
		return domain.Milestone{}, err
	}
	if milestone == nil {
		return domain.Milestone{}, domain.ErrNotFound
	}

	if fileURL != "" {
		milestone.DeliverableFileURL = &fileURL
		if name := strings.TrimSpace(deliverable.FileName); name != "" {
			milestone.DeliverableFileName = &name
		}
	}
	if linkURL != "" {
		milestone.DeliverableLinkURL = &linkURL
	}
	milestone.Status = domain.StatusPendingClientApproval
	milestone.RejectionReason = nil
	milestone.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, milestone); err != nil {
		return domain.Milestone{}, err
	}

	s.log.Info("deliverable submitted",
		zap.String("milestone_id", milestone.ID.String()),
		zap.String("service_request_id", milestone.ServiceRequestID.String()),
	)
	return *milestone, nil
}

func (s *Service) Review(ctx context.Context, id, reviewerID, status, reason string) (domain.Milestone, error) {
	milestoneID, err := parseID(id)
	if err != nil {
		return domain.Milestone{}, err
	}

	reviewer, err := snowflake.ParseString(strings.TrimSpace(reviewerID))
	if err != nil || reviewer == 0 {
		return domain.Milestone{}, domain.ErrNotOwner
	}

	if status != domain.StatusApproved && status != domain.StatusRejected {
		return domain.Milestone{}, domain.ErrInvalidReviewStatus
	}

	reason = strings.TrimSpace(reason)
	if status == domain.StatusRejected && reason == "" {
		return domain.Milestone{}, domain.ErrReasonRequired
	}

	var reviewed domain.Milestone
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		milestone, err := s.repo.FindByID(ctx, tx, milestoneID)
		if err != nil {
			return err
		}
		if milestone == nil {
			return domain.ErrNotFound
		}

		request, err := s.requests.FindByID(ctx, tx, milestone.ServiceRequestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}
		if request.UserID != reviewer {
			return domain.ErrNotOwner
		}

		if milestone.Status != domain.StatusPendingClientApproval {
			return domain.ErrNotReviewable
		}

		milestone.Status = status
		if status == domain.StatusRejected {
			milestone.RejectionReason = &reason
		} else {
			milestone.RejectionReason = nil
		}
		milestone.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, tx, milestone); err != nil {
			return err
		}

		if status == domain.StatusApproved {
			open, err := s.repo.CountOpenByRequestID(ctx, tx, milestone.ServiceRequestID)
			if err != nil {
				return err
			}
			if open == 0 {
				if err := s.requests.UpdateStatus(ctx, tx, request.ID, requestdomain.StatusCompleted); err != nil {
					return err
				}
				s.log.Info("service request completed",
					zap.String("service_request_id", request.ID.String()),
				)
			}
		}

		reviewed = *milestone
		return nil
	})
	if err != nil {
		return domain.Milestone{}, err
	}
	return reviewed, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
