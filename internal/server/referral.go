package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type validateReferralRequest struct {
	Email string `json:"email"`
}

func (s *Server) ValidateReferralEmail(c *gin.Context) {
	var req validateReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.referralSvc.ValidateEmail(c.Request.Context(), req.Email); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}
