package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/brandloom/brandloom/internal/invoice/domain"
)

func (s *Server) ListMyInvoices(c *gin.Context) {
	invoices, err := s.invoiceSvc.ListByUser(c.Request.Context(), currentPrincipal(c).ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (s *Server) GetInvoice(c *gin.Context) {
	p := currentPrincipal(c)
	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), invoicedomain.Principal{
		ID:    p.ID,
		Role:  p.Role,
		Admin: p.Admin,
	}, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}
