package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/brandloom/brandloom/internal/catalog/domain"
	catalogrepository "github.com/brandloom/brandloom/internal/catalog/repository"
	"github.com/brandloom/brandloom/internal/config"
	invoicedomain "github.com/brandloom/brandloom/internal/invoice/domain"
	invoicerepository "github.com/brandloom/brandloom/internal/invoice/repository"
	milestonedomain "github.com/brandloom/brandloom/internal/milestone/domain"
	milestonerepository "github.com/brandloom/brandloom/internal/milestone/repository"
	referraldomain "github.com/brandloom/brandloom/internal/referral/domain"
	referralrepository "github.com/brandloom/brandloom/internal/referral/repository"
	"github.com/brandloom/brandloom/internal/servicerequest/domain"
	requestrepository "github.com/brandloom/brandloom/internal/servicerequest/repository"
	userdomain "github.com/brandloom/brandloom/internal/user/domain"
)

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	svc     domain.Service
	user    userdomain.User
	catalog catalogdomain.Service
	plan    catalogdomain.Plan
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, conn.AutoMigrate(
		&userdomain.User{},
		&catalogdomain.Service{},
		&catalogdomain.Plan{},
		&catalogdomain.FAQ{},
		&domain.ServiceRequest{},
		&milestonedomain.Milestone{},
		&invoicedomain.Invoice{},
		&referraldomain.Referral{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	user := userdomain.User{
		ID:       node.Generate(),
		Name:     "Ada Client",
		Email:    "ada@example.com",
		Role:     userdomain.RoleUser,
		Password: "hash",
	}
	require.NoError(t, conn.Create(&user).Error)

	offering := catalogdomain.Service{
		ID:      node.Generate(),
		AdminID: node.Generate(),
		Title:   "Social Media Management",
	}
	require.NoError(t, conn.Create(&offering).Error)

	plan := catalogdomain.Plan{
		ID:        node.Generate(),
		ServiceID: offering.ID,
		Name:      "Growth",
		Price:     1000,
	}
	require.NoError(t, conn.Create(&plan).Error)

	billing := &config.BillingConfigHolder{}
	billing.Set(config.DefaultBillingConfig())

	svc := New(Params{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       requestrepository.Provide(),
		Milestones: milestonerepository.Provide(),
		Invoices:   invoicerepository.Provide(),
		Referrals:  referralrepository.Provide(),
		Catalog:    catalogrepository.Provide(),
		Billing:    billing,
	})

	return &fixture{db: conn, node: node, svc: svc, user: user, catalog: offering, plan: plan}
}

func (f *fixture) initializeRequest() domain.InitializeRequest {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return domain.InitializeRequest{
		UserID:    f.user.ID.String(),
		ServiceID: f.catalog.ID.String(),
		SelectedPlan: domain.SelectedPlan{
			ID:    f.plan.ID.String(),
			Name:  f.plan.Name,
			Price: f.plan.Price,
		},
		FormData:  map[string]interface{}{"brand": "Acme"},
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
	}
}

func TestInitializeCreatesRequestAndInvoice(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	before := time.Now().UTC()
	result, err := f.svc.Initialize(ctx, f.initializeRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPendingApproval, result.Request.Status)
	assert.Equal(t, invoicedomain.StatusUnpaid, result.Invoice.Status)
	assert.Equal(t, result.Request.ID, result.Invoice.ServiceRequestID)
	assert.Equal(t, f.plan.Price, result.Invoice.Amount)
	assert.Nil(t, result.Invoice.ReferralID)

	// due date = now + 7 days
	wantDue := before.AddDate(0, 0, 7)
	assert.WithinDuration(t, wantDue, result.Invoice.DueDate, time.Minute)

	var requestCount, invoiceCount int64
	require.NoError(t, f.db.Model(&domain.ServiceRequest{}).Count(&requestCount).Error)
	require.NoError(t, f.db.Model(&invoicedomain.Invoice{}).Count(&invoiceCount).Error)
	assert.EqualValues(t, 1, requestCount)
	assert.EqualValues(t, 1, invoiceCount)
}

func TestInitializeRejectsMissingDates(t *testing.T) {
	f := setupFixture(t)

	req := f.initializeRequest()
	req.StartDate = time.Time{}

	_, err := f.svc.Initialize(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrInvalidDates)

	var requestCount int64
	require.NoError(t, f.db.Model(&domain.ServiceRequest{}).Count(&requestCount).Error)
	assert.EqualValues(t, 0, requestCount)
}

func TestInitializeRejectsNegativePrice(t *testing.T) {
	f := setupFixture(t)

	req := f.initializeRequest()
	req.SelectedPlan.Price = -1

	_, err := f.svc.Initialize(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestInitializeWithReferralDiscountsCanonicalPrice(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	req := f.initializeRequest()
	// Client-supplied price must be ignored on the referral path.
	req.SelectedPlan.Price = 9999

	result, err := f.svc.InitializeWithReferral(ctx, f.user.ID.String(), req, "friend@example.com")
	require.NoError(t, err)

	assert.Equal(t, f.plan.Price*0.5, result.Invoice.Amount)
	require.NotNil(t, result.Invoice.ReferralID)

	var referral referraldomain.Referral
	require.NoError(t, f.db.First(&referral, "id = ?", *result.Invoice.ReferralID).Error)
	assert.Equal(t, referraldomain.StatusCompleted, referral.Status)
	assert.Equal(t, "friend@example.com", referral.ReferredEmail)
	require.NotNil(t, referral.InvoiceID)
	assert.Equal(t, result.Invoice.ID, *referral.InvoiceID)
}

func TestInitializeWithReferralRejectsUsedEmail(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.svc.InitializeWithReferral(ctx, f.user.ID.String(), f.initializeRequest(), "friend@example.com")
	require.NoError(t, err)

	_, err = f.svc.InitializeWithReferral(ctx, f.user.ID.String(), f.initializeRequest(), "friend@example.com")
	require.ErrorIs(t, err, referraldomain.ErrAlreadyReferred)

	// The failed attempt must not leave partial rows behind.
	var requestCount, invoiceCount, referralCount int64
	require.NoError(t, f.db.Model(&domain.ServiceRequest{}).Count(&requestCount).Error)
	require.NoError(t, f.db.Model(&invoicedomain.Invoice{}).Count(&invoiceCount).Error)
	require.NoError(t, f.db.Model(&referraldomain.Referral{}).Count(&referralCount).Error)
	assert.EqualValues(t, 1, requestCount)
	assert.EqualValues(t, 1, invoiceCount)
	assert.EqualValues(t, 1, referralCount)
}

func TestInitializeWithReferralRejectsBadEmail(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.InitializeWithReferral(context.Background(), f.user.ID.String(), f.initializeRequest(), "not-an-email")
	require.ErrorIs(t, err, referraldomain.ErrInvalidEmail)
}

func TestInitializeWithReferralRejectsUnknownPlan(t *testing.T) {
	f := setupFixture(t)

	req := f.initializeRequest()
	req.SelectedPlan.ID = f.node.Generate().String()

	_, err := f.svc.InitializeWithReferral(context.Background(), f.user.ID.String(), req, "friend@example.com")
	require.ErrorIs(t, err, domain.ErrRelatedNotFound)
}

func TestUpdateStatusActivatesWithMilestones(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	result, err := f.svc.Initialize(ctx, f.initializeRequest())
	require.NoError(t, err)

	deadline := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	updated, err := f.svc.UpdateStatus(ctx, result.Request.ID.String(), domain.StatusActive, []domain.MilestoneSpec{
		{Title: "Brand audit", Deadline: deadline},
		{Title: "Content calendar", Deadline: deadline.AddDate(0, 0, 14)},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, updated.Status)
	require.Len(t, updated.Milestones, 2)
	for _, m := range updated.Milestones {
		assert.Equal(t, milestonedomain.StatusPendingAdminUpload, m.Status)
	}
	// ordered by deadline
	assert.Equal(t, "Brand audit", updated.Milestones[0].Title)
}

func TestUpdateStatusActiveRequiresMilestones(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	result, err := f.svc.Initialize(ctx, f.initializeRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, result.Request.ID.String(), domain.StatusActive, nil)
	require.ErrorIs(t, err, domain.ErrMilestonesRequired)

	var reloaded domain.ServiceRequest
	require.NoError(t, f.db.First(&reloaded, "id = ?", result.Request.ID).Error)
	assert.Equal(t, domain.StatusPendingApproval, reloaded.Status)
}

func TestUpdateStatusDecline(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	result, err := f.svc.Initialize(ctx, f.initializeRequest())
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(ctx, result.Request.ID.String(), domain.StatusDeclined, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeclined, updated.Status)
	assert.Empty(t, updated.Milestones)
}

func TestUpdateStatusRejectsOtherStates(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	result, err := f.svc.Initialize(ctx, f.initializeRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, result.Request.ID.String(), domain.StatusCompleted, nil)
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGetByIDEnforcesOwnership(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	result, err := f.svc.Initialize(ctx, f.initializeRequest())
	require.NoError(t, err)
	id := result.Request.ID.String()

	_, err = f.svc.GetByID(ctx, domain.Principal{ID: f.node.Generate().String()}, id)
	require.ErrorIs(t, err, domain.ErrNotOwner)

	got, err := f.svc.GetByID(ctx, domain.Principal{ID: f.user.ID.String()}, id)
	require.NoError(t, err)
	assert.Equal(t, result.Request.ID, got.ID)
	require.NotNil(t, got.Invoice)

	admin := domain.Principal{ID: f.node.Generate().String(), Role: userdomain.RoleAdmin, Admin: true}
	_, err = f.svc.GetByID(ctx, admin, id)
	require.NoError(t, err)
}

func TestListByUserOrdersNewestFirst(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	first, err := f.svc.Initialize(ctx, f.initializeRequest())
	require.NoError(t, err)
	second, err := f.svc.Initialize(ctx, f.initializeRequest())
	require.NoError(t, err)

	// force distinct created_at values
	require.NoError(t, f.db.Model(&domain.ServiceRequest{}).
		Where("id = ?", first.Request.ID).
		Update("created_at", time.Now().UTC().Add(-time.Hour)).Error)

	requests, err := f.svc.ListByUser(ctx, f.user.ID.String())
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, second.Request.ID, requests[0].ID)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	var ids []snowflake.ID
	for i := 0; i < 3; i++ {
		result, err := f.svc.Initialize(ctx, f.initializeRequest())
		require.NoError(t, err)
		ids = append(ids, result.Request.ID)

		// force distinct created_at values
		require.NoError(t, f.db.Model(&domain.ServiceRequest{}).
			Where("id = ?", result.Request.ID).
			Update("created_at", time.Now().UTC().Add(time.Duration(i-3)*time.Hour)).Error)
	}

	page, err := f.svc.List(ctx, domain.ListRequest{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Requests, 2)
	assert.Equal(t, ids[2], page.Requests[0].ID)
	assert.Equal(t, ids[1], page.Requests[1].ID)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.NextPageToken)

	all, err := f.svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, all.Requests, 3)
	assert.False(t, all.HasMore)
}

func TestListRejectsBadPageToken(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.List(context.Background(), domain.ListRequest{PageToken: "not-a-cursor"})
	assert.ErrorIs(t, err, domain.ErrInvalidPageToken)
}
