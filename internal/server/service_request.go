package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	requestdomain "github.com/brandloom/brandloom/internal/servicerequest/domain"
	"github.com/brandloom/brandloom/pkg/db/pagination"
)

// intakePayload is the jsonData part of the multipart intake form. Uploaded
// files are injected into FormData keyed by their multipart field name.
type intakePayload struct {
	ServiceID    string                     `json:"serviceId"`
	SelectedPlan requestdomain.SelectedPlan `json:"selectedPlan"`
	FormData     map[string]interface{}     `json:"formData"`
	StartDate    string                     `json:"startDate"`
	EndDate      string                     `json:"endDate"`
}

func (s *Server) InitializeRequest(c *gin.Context) {
	req, err := s.buildInitializeRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.requestSvc.Initialize(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.notifyInvoiceCreated(c, result)
	c.JSON(http.StatusCreated, result)
}

func (s *Server) InitializeRequestWithReferral(c *gin.Context) {
	req, err := s.buildInitializeRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	referredEmail := c.PostForm("referral_email")
	result, err := s.requestSvc.InitializeWithReferral(c.Request.Context(), currentPrincipal(c).ID, req, referredEmail)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.notifyInvoiceCreated(c, result)
	c.JSON(http.StatusCreated, result)
}

func (s *Server) buildInitializeRequest(c *gin.Context) (requestdomain.InitializeRequest, error) {
	raw := c.PostForm("jsonData")
	if strings.TrimSpace(raw) == "" {
		return requestdomain.InitializeRequest{}, ErrInvalidRequest
	}

	var payload intakePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return requestdomain.InitializeRequest{}, ErrInvalidRequest
	}

	startDate, err := parseDate(payload.StartDate)
	if err != nil {
		return requestdomain.InitializeRequest{}, requestdomain.ErrInvalidDates
	}
	endDate, err := parseDate(payload.EndDate)
	if err != nil {
		return requestdomain.InitializeRequest{}, requestdomain.ErrInvalidDates
	}

	formData := payload.FormData
	if formData == nil {
		formData = map[string]interface{}{}
	}

	// Store any uploaded files and replace them in the form data with their
	// public URLs, keyed by field name.
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for field, headers := range form.File {
			if len(headers) == 0 {
				continue
			}
			url, err := s.storeUpload(c, headers[0])
			if err != nil {
				return requestdomain.InitializeRequest{}, err
			}
			formData[field] = url
		}
	}

	return requestdomain.InitializeRequest{
		UserID:       currentPrincipal(c).ID,
		ServiceID:    payload.ServiceID,
		SelectedPlan: payload.SelectedPlan,
		FormData:     formData,
		StartDate:    startDate,
		EndDate:      endDate,
	}, nil
}

func (s *Server) storeUpload(c *gin.Context, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return s.uploader.Upload(c.Request.Context(), header.Filename, data)
}

func (s *Server) notifyInvoiceCreated(c *gin.Context, result requestdomain.InitializeResult) {
	user, err := s.userSvc.GetByID(c.Request.Context(), result.Request.UserID.String())
	if err != nil {
		return
	}

	subject := "Your Brandloom invoice is ready"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your service request has been received. Invoice %s for %s %.2f is due %s.</p>",
		user.Name,
		result.Invoice.ID.String(),
		result.Invoice.Currency,
		result.Invoice.Amount,
		result.Invoice.DueDate.Format("02 Jan 2006"),
	)
	if err := s.emails.Send(c.Request.Context(), []string{user.Email}, subject, body); err != nil {
		s.log.Warn("invoice notification failed", zap.Error(err))
	}
}

func (s *Server) ListRequests(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.requestSvc.List(c.Request.Context(), requestdomain.ListRequest{
		PageToken: page.PageToken,
		PageSize:  page.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) ListMyRequests(c *gin.Context) {
	requests, err := s.requestSvc.ListByUser(c.Request.Context(), currentPrincipal(c).ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service_requests": requests})
}

func (s *Server) GetRequest(c *gin.Context) {
	p := currentPrincipal(c)
	request, err := s.requestSvc.GetByID(c.Request.Context(), requestdomain.Principal{
		ID:    p.ID,
		Role:  p.Role,
		Admin: p.Admin,
	}, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

type updateRequestStatusRequest struct {
	Status     string `json:"status"`
	Milestones []struct {
		Title    string `json:"title"`
		Deadline string `json:"deadline"`
	} `json:"milestones"`
}

func (s *Server) UpdateRequestStatus(c *gin.Context) {
	var req updateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	specs := make([]requestdomain.MilestoneSpec, 0, len(req.Milestones))
	for _, m := range req.Milestones {
		deadline, err := parseDate(m.Deadline)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		specs = append(specs, requestdomain.MilestoneSpec{Title: m.Title, Deadline: deadline})
	}

	request, err := s.requestSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, specs)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
