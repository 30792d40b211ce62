package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	milestonedomain "github.com/brandloom/brandloom/internal/milestone/domain"
	paymentdomain "github.com/brandloom/brandloom/internal/payment/domain"
	referraldomain "github.com/brandloom/brandloom/internal/referral/domain"
	userdomain "github.com/brandloom/brandloom/internal/user/domain"
)

type fakeUserService struct {
	registerCalls int
	lastEmail     string
	registerErr   error
}

func (f *fakeUserService) Register(ctx context.Context, req userdomain.RegisterRequest) (userdomain.User, error) {
	f.registerCalls++
	f.lastEmail = req.Email
	_ = ctx
	if f.registerErr != nil {
		return userdomain.User{}, f.registerErr
	}
	return userdomain.User{Name: req.Name, Email: req.Email}, nil
}

func (f *fakeUserService) Login(ctx context.Context, req userdomain.LoginRequest) (userdomain.LoginResult, error) {
	_ = ctx
	_ = req
	return userdomain.LoginResult{}, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (userdomain.User, error) {
	_ = ctx
	_ = id
	return userdomain.User{}, nil
}

func (f *fakeUserService) List(ctx context.Context) ([]userdomain.User, error) {
	_ = ctx
	return nil, nil
}

func (f *fakeUserService) Update(ctx context.Context, req userdomain.UpdateUserRequest) (userdomain.User, error) {
	_ = ctx
	_ = req
	return userdomain.User{}, nil
}

func (f *fakeUserService) Delete(ctx context.Context, id string) error {
	_ = ctx
	_ = id
	return nil
}

type fakeMilestoneService struct {
	reviewErr    error
	lastVerdict  string
	lastReviewer string
	updateCalls  int
	lastUpdate   milestonedomain.UpdateMilestoneRequest
}

func (f *fakeMilestoneService) Create(ctx context.Context, req milestonedomain.CreateMilestoneRequest) (milestonedomain.Milestone, error) {
	_ = ctx
	_ = req
	return milestonedomain.Milestone{}, nil
}

func (f *fakeMilestoneService) GetByID(ctx context.Context, id string) (milestonedomain.Milestone, error) {
	_ = ctx
	_ = id
	return milestonedomain.Milestone{}, nil
}

func (f *fakeMilestoneService) ListByRequest(ctx context.Context, requestID string) ([]milestonedomain.Milestone, error) {
	_ = ctx
	_ = requestID
	return nil, nil
}

func (f *fakeMilestoneService) Update(ctx context.Context, req milestonedomain.UpdateMilestoneRequest) (milestonedomain.Milestone, error) {
	_ = ctx
	f.updateCalls++
	f.lastUpdate = req
	return milestonedomain.Milestone{Title: req.Title}, nil
}

func (f *fakeMilestoneService) Delete(ctx context.Context, id string) error {
	_ = ctx
	_ = id
	return nil
}

func (f *fakeMilestoneService) SubmitDeliverable(ctx context.Context, id string, deliverable milestonedomain.Deliverable) (milestonedomain.Milestone, error) {
	_ = ctx
	_ = id
	_ = deliverable
	return milestonedomain.Milestone{}, nil
}

func (f *fakeMilestoneService) Review(ctx context.Context, id, reviewerID, status, reason string) (milestonedomain.Milestone, error) {
	_ = ctx
	_ = id
	_ = reason
	f.lastReviewer = reviewerID
	f.lastVerdict = status
	if f.reviewErr != nil {
		return milestonedomain.Milestone{}, f.reviewErr
	}
	return milestonedomain.Milestone{Status: status}, nil
}

type fakeReferralService struct {
	err error
}

func (f *fakeReferralService) ValidateEmail(ctx context.Context, email string) error {
	_ = ctx
	_ = email
	return f.err
}

type fakePaymentService struct {
	verifyErr error
}

func (f *fakePaymentService) InitializeTransaction(ctx context.Context, principal paymentdomain.Principal, invoiceID string) (paymentdomain.InitializeResult, error) {
	_ = ctx
	_ = principal
	_ = invoiceID
	return paymentdomain.InitializeResult{}, nil
}

func (f *fakePaymentService) VerifyTransaction(ctx context.Context, reference string) (paymentdomain.VerifyResult, error) {
	_ = ctx
	_ = reference
	if f.verifyErr != nil {
		return paymentdomain.VerifyResult{}, f.verifyErr
	}
	return paymentdomain.VerifyResult{Status: "Paid"}, nil
}

func asPrincipal(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Set("user_role", role)
		c.Next()
	}
}

func decodeError(t *testing.T, body *bytes.Buffer) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp
}

func TestRegisterHandlerCreatesUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userSvc := &fakeUserService{}
	srv := &Server{userSvc: userSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/register", srv.Register)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(`{"name":"Ada","email":"ada@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if userSvc.registerCalls != 1 {
		t.Fatalf("expected one register call, got %d", userSvc.registerCalls)
	}
	if userSvc.lastEmail != "ada@example.com" {
		t.Fatalf("unexpected email: %s", userSvc.lastEmail)
	}
}

func TestRegisterHandlerEmailTakenReturns409(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{userSvc: &fakeUserService{registerErr: userdomain.ErrEmailTaken}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/register", srv.Register)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(`{"name":"Ada","email":"ada@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
	if payload := decodeError(t, resp.Body); payload.Error.Type != "conflict" {
		t.Fatalf("unexpected error type: %s", payload.Error.Type)
	}
}

func TestReviewMilestoneHandlerPassesPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	milestoneSvc := &fakeMilestoneService{}
	srv := &Server{milestoneSvc: milestoneSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.PATCH("/milestones/:id/review", asPrincipal("42", "user"), srv.ReviewMilestone)

	req := httptest.NewRequest(http.MethodPatch, "/milestones/7/review", bytes.NewBufferString(`{"status":"APPROVED"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if milestoneSvc.lastReviewer != "42" {
		t.Fatalf("expected reviewer 42, got %s", milestoneSvc.lastReviewer)
	}
	if milestoneSvc.lastVerdict != "APPROVED" {
		t.Fatalf("unexpected verdict: %s", milestoneSvc.lastVerdict)
	}
}

func TestReviewMilestoneHandlerNotReviewableReturns400(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{milestoneSvc: &fakeMilestoneService{reviewErr: milestonedomain.ErrNotReviewable}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.PATCH("/milestones/:id/review", asPrincipal("42", "user"), srv.ReviewMilestone)

	req := httptest.NewRequest(http.MethodPatch, "/milestones/7/review", bytes.NewBufferString(`{"status":"APPROVED"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if payload := decodeError(t, resp.Body); payload.Error.Type != "invalid_state" {
		t.Fatalf("unexpected error type: %s", payload.Error.Type)
	}
}

func TestUpdateMilestoneHandlerTitleOnlyKeepsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)

	milestoneSvc := &fakeMilestoneService{}
	srv := &Server{milestoneSvc: milestoneSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.PUT("/milestones/:id", srv.UpdateMilestone)

	req := httptest.NewRequest(http.MethodPut, "/milestones/7", bytes.NewBufferString(`{"title":"Revised wireframes"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if milestoneSvc.updateCalls != 1 {
		t.Fatalf("expected one update call, got %d", milestoneSvc.updateCalls)
	}
	if milestoneSvc.lastUpdate.Title != "Revised wireframes" {
		t.Fatalf("unexpected title: %s", milestoneSvc.lastUpdate.Title)
	}
	if !milestoneSvc.lastUpdate.Deadline.IsZero() {
		t.Fatalf("expected zero deadline, got %v", milestoneSvc.lastUpdate.Deadline)
	}
}

func TestUpdateMilestoneHandlerRejectsBadDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)

	milestoneSvc := &fakeMilestoneService{}
	srv := &Server{milestoneSvc: milestoneSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.PUT("/milestones/:id", srv.UpdateMilestone)

	req := httptest.NewRequest(http.MethodPut, "/milestones/7", bytes.NewBufferString(`{"title":"Revised wireframes","deadline":"next tuesday"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if milestoneSvc.updateCalls != 0 {
		t.Fatalf("expected no update call, got %d", milestoneSvc.updateCalls)
	}
}

func TestValidateReferralEmailHandlerUsedEmailReturns409(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{referralSvc: &fakeReferralService{err: referraldomain.ErrAlreadyReferred}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/referrals/validate", srv.ValidateReferralEmail)

	req := httptest.NewRequest(http.MethodPost, "/referrals/validate", bytes.NewBufferString(`{"email":"used@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestVerifyPaymentHandlerFailureReturns400(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{paymentSvc: &fakePaymentService{verifyErr: paymentdomain.ErrVerificationFailed}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/payments/paystack/verify/:reference", srv.VerifyPayment)

	req := httptest.NewRequest(http.MethodGet, "/payments/paystack/verify/ref-1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if payload := decodeError(t, resp.Body); payload.Error.Type != "payment_failed" {
		t.Fatalf("unexpected error type: %s", payload.Error.Type)
	}
}
