package server

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	milestonedomain "github.com/brandloom/brandloom/internal/milestone/domain"
)

type createMilestoneRequest struct {
	ServiceRequestID string `json:"service_request_id"`
	Title            string `json:"title"`
	Deadline         string `json:"deadline"`
}

func (s *Server) CreateMilestone(c *gin.Context) {
	var req createMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	deadline, err := parseDate(req.Deadline)
	if err != nil {
		AbortWithError(c, milestonedomain.ErrInvalidDeadline)
		return
	}

	milestone, err := s.milestoneSvc.Create(c.Request.Context(), milestonedomain.CreateMilestoneRequest{
		ServiceRequestID: req.ServiceRequestID,
		Title:            req.Title,
		Deadline:         deadline,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, milestone)
}

func (s *Server) ListMilestones(c *gin.Context) {
	requestID := c.Query("service_request_id")
	if requestID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	milestones, err := s.milestoneSvc.ListByRequest(c.Request.Context(), requestID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

func (s *Server) GetMilestone(c *gin.Context) {
	milestone, err := s.milestoneSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, milestone)
}

type updateMilestoneRequest struct {
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
}

func (s *Server) UpdateMilestone(c *gin.Context) {
	var req updateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// An absent deadline keeps the current one.
	var deadline time.Time
	if strings.TrimSpace(req.Deadline) != "" {
		parsed, err := parseDate(req.Deadline)
		if err != nil {
			AbortWithError(c, milestonedomain.ErrInvalidDeadline)
			return
		}
		deadline = parsed
	}

	milestone, err := s.milestoneSvc.Update(c.Request.Context(), milestonedomain.UpdateMilestoneRequest{
		ID:       c.Param("id"),
		Title:    req.Title,
		Deadline: deadline,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, milestone)
}

func (s *Server) DeleteMilestone(c *gin.Context) {
	if err := s.milestoneSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitDeliverable accepts a multipart form with an optional "file" upload
// and an optional "link" field. At least one must be present.
func (s *Server) SubmitDeliverable(c *gin.Context) {
	deliverable := milestonedomain.Deliverable{
		LinkURL: strings.TrimSpace(c.PostForm("link")),
	}

	if header, err := c.FormFile("file"); err == nil && header != nil {
		url, err := s.storeUpload(c, header)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		deliverable.FileURL = url
		deliverable.FileName = filepath.Base(header.Filename)
	}

	milestone, err := s.milestoneSvc.SubmitDeliverable(c.Request.Context(), c.Param("id"), deliverable)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, milestone)
}

type reviewMilestoneRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}

func (s *Server) ReviewMilestone(c *gin.Context) {
	var req reviewMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	milestone, err := s.milestoneSvc.Review(
		c.Request.Context(),
		c.Param("id"),
		currentPrincipal(c).ID,
		req.Status,
		req.RejectionReason,
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, milestone)
}
