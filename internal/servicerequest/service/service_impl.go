package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	catalogdomain "github.com/brandloom/brandloom/internal/catalog/domain"
	"github.com/brandloom/brandloom/internal/config"
	invoicedomain "github.com/brandloom/brandloom/internal/invoice/domain"
	"github.com/brandloom/brandloom/internal/locking"
	milestonedomain "github.com/brandloom/brandloom/internal/milestone/domain"
	referraldomain "github.com/brandloom/brandloom/internal/referral/domain"
	"github.com/brandloom/brandloom/internal/servicerequest/domain"
	"github.com/brandloom/brandloom/pkg/db"
	"github.com/brandloom/brandloom/pkg/db/pagination"
)

const referralLockTTL = 10 * time.Second

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Milestones milestonedomain.Repository
	Invoices   invoicedomain.Repository
	Referrals  referraldomain.Repository
	Catalog    catalogdomain.Repository
	Billing    *config.BillingConfigHolder
	Locker     *locking.Locker `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	milestones milestonedomain.Repository
	invoices   invoicedomain.Repository
	referrals  referraldomain.Repository
	catalog    catalogdomain.Repository
	billing    *config.BillingConfigHolder
	locker     *locking.Locker
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("servicerequest.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		milestones: p.Milestones,
		invoices:   p.Invoices,
		referrals:  p.Referrals,
		catalog:    p.Catalog,
		billing:    p.Billing,
		locker:     p.Locker,
	}
}

func (s *Service) Initialize(ctx context.Context, req domain.InitializeRequest) (domain.InitializeResult, error) {
	userID, serviceID, planID, err := parseInitializeIDs(req)
	if err != nil {
		return domain.InitializeResult{}, err
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return domain.InitializeResult{}, domain.ErrInvalidDates
	}
	if req.SelectedPlan.Price < 0 {
		return domain.InitializeResult{}, domain.ErrInvalidPrice
	}

	return s.createRequestWithInvoice(ctx, s.db, createSpec{
		userID:    userID,
		serviceID: serviceID,
		planID:    planID,
		planName:  strings.TrimSpace(req.SelectedPlan.Name),
		planPrice: req.SelectedPlan.Price,
		amount:    req.SelectedPlan.Price,
		formData:  req.FormData,
		startDate: req.StartDate,
		endDate:   req.EndDate,
	})
}

func (s *Service) InitializeWithReferral(ctx context.Context, referrerID string, req domain.InitializeRequest, referredEmail string) (domain.InitializeResult, error) {
	referrer, err := snowflake.ParseString(strings.TrimSpace(referrerID))
	if err != nil || referrer == 0 {
		return domain.InitializeResult{}, domain.ErrInvalidID
	}

	userID, serviceID, planID, err := parseInitializeIDs(req)
	if err != nil {
		return domain.InitializeResult{}, err
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return domain.InitializeResult{}, domain.ErrInvalidDates
	}

	email := strings.TrimSpace(strings.ToLower(referredEmail))
	if email == "" || !strings.Contains(email, "@") {
		return domain.InitializeResult{}, referraldomain.ErrInvalidEmail
	}

	// Best-effort lock narrowing the check-then-act window; the partial
	// unique index on completed referral emails is the real guarantee.
	if s.locker.Enabled() {
		token, held, lockErr := s.locker.TryLock(ctx, "referral:email:"+email, referralLockTTL)
		if lockErr != nil {
			s.log.Warn("referral lock unavailable", zap.Error(lockErr))
		} else if held {
			defer func() {
				if releaseErr := s.locker.Release(ctx, "referral:email:"+email, token); releaseErr != nil {
					s.log.Warn("referral lock release failed", zap.Error(releaseErr))
				}
			}()
		}
	}

	existing, err := s.referrals.FindCompletedByEmail(ctx, s.db, email)
	if err != nil {
		return domain.InitializeResult{}, err
	}
	if existing != nil {
		return domain.InitializeResult{}, referraldomain.ErrAlreadyReferred
	}

	// The discount applies to the canonical catalog price, never the
	// client-supplied one.
	plan, err := s.catalog.FindPlanByID(ctx, s.db, planID)
	if err != nil {
		return domain.InitializeResult{}, err
	}
	if plan == nil {
		return domain.InitializeResult{}, domain.ErrRelatedNotFound
	}

	discounted := plan.Price * s.billing.Get().ReferralDiscountRate

	return s.createRequestWithInvoice(ctx, s.db, createSpec{
		userID:        userID,
		serviceID:     serviceID,
		planID:        planID,
		planName:      plan.Name,
		planPrice:     plan.Price,
		amount:        discounted,
		formData:      req.FormData,
		startDate:     req.StartDate,
		endDate:       req.EndDate,
		referrerID:    referrer,
		referredEmail: email,
	})
}

// createSpec carries the resolved inputs of an initialize call. A non-empty
// referredEmail makes the creation a referral flow.
type createSpec struct {
	userID        snowflake.ID
	serviceID     snowflake.ID
	planID        snowflake.ID
	planName      string
	planPrice     float64
	amount        float64
	formData      map[string]interface{}
	startDate     time.Time
	endDate       time.Time
	referrerID    snowflake.ID
	referredEmail string
}

func (s *Service) createRequestWithInvoice(ctx context.Context, conn *gorm.DB, spec createSpec) (domain.InitializeResult, error) {
	billing := s.billing.Get()
	now := time.Now().UTC()

	request := domain.ServiceRequest{
		ID:        s.genID.Generate(),
		UserID:    spec.userID,
		ServiceID: spec.serviceID,
		PlanID:    spec.planID,
		PlanName:  spec.planName,
		PlanPrice: spec.planPrice,
		FormData:  datatypes.JSONMap(spec.formData),
		StartDate: spec.startDate,
		EndDate:   spec.endDate,
		Status:    domain.StatusPendingApproval,
		CreatedAt: now,
		UpdatedAt: now,
	}

	invoice := invoicedomain.Invoice{
		ID:               s.genID.Generate(),
		UserID:           spec.userID,
		ServiceRequestID: request.ID,
		Amount:           spec.amount,
		Currency:         billing.Currency,
		Status:           invoicedomain.StatusUnpaid,
		DueDate:          now.AddDate(0, 0, billing.InvoiceDueDays),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if spec.referredEmail != "" {
			referral := referraldomain.Referral{
				ID:            s.genID.Generate(),
				ReferrerID:    spec.referrerID,
				ReferredEmail: spec.referredEmail,
				Status:        referraldomain.StatusPending,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := s.referrals.Insert(ctx, tx, &referral); err != nil {
				return err
			}
			invoice.ReferralID = &referral.ID

			if err := s.repo.Insert(ctx, tx, &request); err != nil {
				return err
			}
			if err := s.invoices.Insert(ctx, tx, &invoice); err != nil {
				return err
			}
			return s.referrals.Complete(ctx, tx, referral.ID, invoice.ID)
		}

		if err := s.repo.Insert(ctx, tx, &request); err != nil {
			return err
		}
		return s.invoices.Insert(ctx, tx, &invoice)
	})
	if err != nil {
		switch {
		case db.IsDuplicateKeyErr(err):
			return domain.InitializeResult{}, referraldomain.ErrAlreadyReferred
		case db.IsForeignKeyErr(err):
			return domain.InitializeResult{}, domain.ErrRelatedNotFound
		default:
			return domain.InitializeResult{}, err
		}
	}

	s.log.Info("service request initialized",
		zap.String("service_request_id", request.ID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.Bool("referral", spec.referredEmail != ""),
	)
	return domain.InitializeResult{Request: request, Invoice: invoice}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, requestID, status string, specs []domain.MilestoneSpec) (domain.ServiceRequest, error) {
	id, err := parseID(requestID)
	if err != nil {
		return domain.ServiceRequest{}, err
	}

	if status != domain.StatusActive && status != domain.StatusDeclined {
		return domain.ServiceRequest{}, domain.ErrInvalidStatus
	}

	request, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if request == nil {
		return domain.ServiceRequest{}, domain.ErrNotFound
	}

	if status == domain.StatusActive {
		if len(specs) == 0 {
			return domain.ServiceRequest{}, domain.ErrMilestonesRequired
		}
		for _, spec := range specs {
			if strings.TrimSpace(spec.Title) == "" {
				return domain.ServiceRequest{}, milestonedomain.ErrInvalidTitle
			}
			if spec.Deadline.IsZero() {
				return domain.ServiceRequest{}, milestonedomain.ErrInvalidDeadline
			}
		}

		now := time.Now().UTC()
		milestones := make([]*milestonedomain.Milestone, 0, len(specs))
		for _, spec := range specs {
			milestones = append(milestones, &milestonedomain.Milestone{
				ID:               s.genID.Generate(),
				ServiceRequestID: id,
				Title:            strings.TrimSpace(spec.Title),
				Deadline:         spec.Deadline,
				Status:           milestonedomain.StatusPendingAdminUpload,
				CreatedAt:        now,
				UpdatedAt:        now,
			})
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.milestones.InsertBatch(ctx, tx, milestones); err != nil {
				return err
			}
			return s.repo.UpdateStatus(ctx, tx, id, domain.StatusActive)
		})
		if err != nil {
			return domain.ServiceRequest{}, err
		}
	} else {
		if err := s.repo.UpdateStatus(ctx, s.db, id, domain.StatusDeclined); err != nil {
			return domain.ServiceRequest{}, err
		}
	}

	updated, err := s.repo.FindDetailedByID(ctx, s.db, id)
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if updated == nil {
		return domain.ServiceRequest{}, domain.ErrNotFound
	}

	s.log.Info("service request status updated",
		zap.String("service_request_id", id.String()),
		zap.String("status", status),
	)
	return *updated, nil
}

func (s *Service) GetByID(ctx context.Context, principal domain.Principal, id string) (domain.ServiceRequest, error) {
	requestID, err := parseID(id)
	if err != nil {
		return domain.ServiceRequest{}, err
	}

	request, err := s.repo.FindDetailedByID(ctx, s.db, requestID)
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if request == nil {
		return domain.ServiceRequest{}, domain.ErrNotFound
	}

	if !principal.Admin && request.UserID.String() != principal.ID {
		return domain.ServiceRequest{}, domain.ErrNotOwner
	}
	return *request, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	size := req.PageSize
	if size <= 0 {
		size = 10
	}
	if size > 250 {
		size = 250
	}

	var cursor *pagination.Cursor
	if req.PageToken != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidPageToken
		}
		cursor = decoded
	}

	items, err := s.repo.FindAll(ctx, s.db, cursor, size)
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, size, func(item *domain.ServiceRequest) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	if len(items) > size {
		items = items[:size]
	}
	requests := make([]domain.ServiceRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, *item)
	}
	return domain.ListResponse{PageInfo: *pageInfo, Requests: requests}, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.ServiceRequest, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.FindByUserID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	requests := make([]domain.ServiceRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, *item)
	}
	return requests, nil
}

func parseInitializeIDs(req domain.InitializeRequest) (userID, serviceID, planID snowflake.ID, err error) {
	if userID, err = parseID(req.UserID); err != nil {
		return 0, 0, 0, err
	}
	if serviceID, err = parseID(req.ServiceID); err != nil {
		return 0, 0, 0, err
	}
	if planID, err = parseID(req.SelectedPlan.ID); err != nil {
		return 0, 0, 0, err
	}
	return userID, serviceID, planID, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
