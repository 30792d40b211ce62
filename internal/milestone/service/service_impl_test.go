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

	"github.com/brandloom/brandloom/internal/milestone/domain"
	milestonerepository "github.com/brandloom/brandloom/internal/milestone/repository"
	requestdomain "github.com/brandloom/brandloom/internal/servicerequest/domain"
	requestrepository "github.com/brandloom/brandloom/internal/servicerequest/repository"
	userdomain "github.com/brandloom/brandloom/internal/user/domain"
)

type reviewFixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	svc     domain.Service
	owner   snowflake.ID
	request requestdomain.ServiceRequest
}

func setupReviewFixture(t *testing.T) *reviewFixture {
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
		&requestdomain.ServiceRequest{},
		&domain.Milestone{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	owner := node.Generate()
	request := requestdomain.ServiceRequest{
		ID:        node.Generate(),
		UserID:    owner,
		ServiceID: node.Generate(),
		PlanID:    node.Generate(),
		PlanName:  "Growth",
		PlanPrice: 1000,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Status:    requestdomain.StatusActive,
	}
	require.NoError(t, conn.Omit("User", "Service", "Invoice", "Milestones").Create(&request).Error)

	svc := New(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     milestonerepository.Provide(),
		Requests: requestrepository.Provide(),
	})

	return &reviewFixture{db: conn, node: node, svc: svc, owner: owner, request: request}
}

func (f *reviewFixture) createMilestone(t *testing.T, status string) domain.Milestone {
	t.Helper()
	milestone := domain.Milestone{
		ID:               f.node.Generate(),
		ServiceRequestID: f.request.ID,
		Title:            "Deliver assets",
		Deadline:         time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:           status,
	}
	require.NoError(t, f.db.Create(&milestone).Error)
	return milestone
}

func TestSubmitDeliverableRequiresFileOrLink(t *testing.T) {
	f := setupReviewFixture(t)
	m := f.createMilestone(t, domain.StatusPendingAdminUpload)

	_, err := f.svc.SubmitDeliverable(context.Background(), m.ID.String(), domain.Deliverable{})
	require.ErrorIs(t, err, domain.ErrDeliverableRequired)
}

func TestSubmitDeliverableMovesToClientApproval(t *testing.T) {
	f := setupReviewFixture(t)
	m := f.createMilestone(t, domain.StatusRejected)
	reason := "wrong logo"
	require.NoError(t, f.db.Model(&domain.Milestone{}).Where("id = ?", m.ID).
		Update("rejection_reason", reason).Error)

	updated, err := f.svc.SubmitDeliverable(context.Background(), m.ID.String(), domain.Deliverable{
		FileURL:  "https://files.example.com/deck.pdf",
		FileName: "deck.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPendingClientApproval, updated.Status)
	assert.Nil(t, updated.RejectionReason)
	require.NotNil(t, updated.DeliverableFileURL)
	assert.Equal(t, "https://files.example.com/deck.pdf", *updated.DeliverableFileURL)
	require.NotNil(t, updated.DeliverableFileName)
	assert.Equal(t, "deck.pdf", *updated.DeliverableFileName)
}

func TestReviewRejectsNonOwner(t *testing.T) {
	f := setupReviewFixture(t)
	m := f.createMilestone(t, domain.StatusPendingClientApproval)

	stranger := f.node.Generate().String()
	_, err := f.svc.Review(context.Background(), m.ID.String(), stranger, domain.StatusApproved, "")
	require.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestReviewRejectsWhenNotAwaitingApproval(t *testing.T) {
	f := setupReviewFixture(t)

	for _, status := range []string{domain.StatusPendingAdminUpload, domain.StatusApproved, domain.StatusRejected} {
		m := f.createMilestone(t, status)

		_, err := f.svc.Review(context.Background(), m.ID.String(), f.owner.String(), domain.StatusApproved, "")
		require.ErrorIs(t, err, domain.ErrNotReviewable, "status %s", status)

		var reloaded domain.Milestone
		require.NoError(t, f.db.First(&reloaded, "id = ?", m.ID).Error)
		assert.Equal(t, status, reloaded.Status)
	}
}

func TestReviewRejectedRequiresReason(t *testing.T) {
	f := setupReviewFixture(t)
	m := f.createMilestone(t, domain.StatusPendingClientApproval)

	_, err := f.svc.Review(context.Background(), m.ID.String(), f.owner.String(), domain.StatusRejected, "  ")
	require.ErrorIs(t, err, domain.ErrReasonRequired)

	reviewed, err := f.svc.Review(context.Background(), m.ID.String(), f.owner.String(), domain.StatusRejected, "colors are off")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, reviewed.Status)
	require.NotNil(t, reviewed.RejectionReason)
	assert.Equal(t, "colors are off", *reviewed.RejectionReason)
}

func TestReviewRejectsUnknownVerdict(t *testing.T) {
	f := setupReviewFixture(t)
	m := f.createMilestone(t, domain.StatusPendingClientApproval)

	_, err := f.svc.Review(context.Background(), m.ID.String(), f.owner.String(), "MAYBE", "")
	require.ErrorIs(t, err, domain.ErrInvalidReviewStatus)
}

func TestReviewRollupCompletesRequestOnLastApproval(t *testing.T) {
	f := setupReviewFixture(t)
	ctx := context.Background()

	m1 := f.createMilestone(t, domain.StatusPendingClientApproval)
	m2 := f.createMilestone(t, domain.StatusPendingClientApproval)

	_, err := f.svc.Review(ctx, m1.ID.String(), f.owner.String(), domain.StatusApproved, "")
	require.NoError(t, err)

	var request requestdomain.ServiceRequest
	require.NoError(t, f.db.First(&request, "id = ?", f.request.ID).Error)
	assert.Equal(t, requestdomain.StatusActive, request.Status, "request must not complete while milestones remain open")

	_, err = f.svc.Review(ctx, m2.ID.String(), f.owner.String(), domain.StatusApproved, "")
	require.NoError(t, err)

	require.NoError(t, f.db.First(&request, "id = ?", f.request.ID).Error)
	assert.Equal(t, requestdomain.StatusCompleted, request.Status)
}

func TestReviewRejectionDoesNotCompleteRequest(t *testing.T) {
	f := setupReviewFixture(t)
	ctx := context.Background()

	m := f.createMilestone(t, domain.StatusPendingClientApproval)

	_, err := f.svc.Review(ctx, m.ID.String(), f.owner.String(), domain.StatusRejected, "needs rework")
	require.NoError(t, err)

	var request requestdomain.ServiceRequest
	require.NoError(t, f.db.First(&request, "id = ?", f.request.ID).Error)
	assert.Equal(t, requestdomain.StatusActive, request.Status)
}

func TestRejectedMilestoneRecoversThroughResubmission(t *testing.T) {
	f := setupReviewFixture(t)
	ctx := context.Background()

	m := f.createMilestone(t, domain.StatusPendingClientApproval)

	_, err := f.svc.Review(ctx, m.ID.String(), f.owner.String(), domain.StatusRejected, "wrong format")
	require.NoError(t, err)

	resubmitted, err := f.svc.SubmitDeliverable(ctx, m.ID.String(), domain.Deliverable{
		LinkURL: "https://drive.example.com/v2",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingClientApproval, resubmitted.Status)
	assert.Nil(t, resubmitted.RejectionReason)

	approved, err := f.svc.Review(ctx, m.ID.String(), f.owner.String(), domain.StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	assert.Nil(t, approved.RejectionReason)

	var request requestdomain.ServiceRequest
	require.NoError(t, f.db.First(&request, "id = ?", f.request.ID).Error)
	assert.Equal(t, requestdomain.StatusCompleted, request.Status)
}

func TestMilestoneCRUD(t *testing.T) {
	f := setupReviewFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateMilestoneRequest{
		ServiceRequestID: f.request.ID.String(),
		Title:            "Launch campaign",
		Deadline:         time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingAdminUpload, created.Status)

	got, err := f.svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := f.svc.Update(ctx, domain.UpdateMilestoneRequest{
		ID:    created.ID.String(),
		Title: "Launch paid campaign",
	})
	require.NoError(t, err)
	assert.Equal(t, "Launch paid campaign", updated.Title)
	assert.WithinDuration(t, created.Deadline, updated.Deadline, time.Second)

	listed, err := f.svc.ListByRequest(ctx, f.request.ID.String())
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, f.svc.Delete(ctx, created.ID.String()))

	_, err = f.svc.GetByID(ctx, created.ID.String())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateMilestoneRequiresExistingRequest(t *testing.T) {
	f := setupReviewFixture(t)

	_, err := f.svc.Create(context.Background(), domain.CreateMilestoneRequest{
		ServiceRequestID: f.node.Generate().String(),
		Title:            "Orphan",
		Deadline:         time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, requestdomain.ErrNotFound)
}
