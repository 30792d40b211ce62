package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentdomain "github.com/brandloom/brandloom/internal/payment/domain"
)

type initializePaymentRequest struct {
	InvoiceID string `json:"invoice_id"`
}

func (s *Server) InitializePayment(c *gin.Context) {
	var req initializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	p := currentPrincipal(c)
	user, err := s.userSvc.GetByID(c.Request.Context(), p.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.paymentSvc.InitializeTransaction(c.Request.Context(), paymentdomain.Principal{
		ID:    p.ID,
		Email: user.Email,
		Admin: p.Admin,
	}, req.InvoiceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) VerifyPayment(c *gin.Context) {
	result, err := s.paymentSvc.VerifyTransaction(c.Request.Context(), c.Param("reference"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
