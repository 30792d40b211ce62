package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/brandloom/brandloom/internal/catalog/domain"
)

func (s *Server) ListPublicServices(c *gin.Context) {
	services, err := s.catalogSvc.ListPublic(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (s *Server) ListServices(c *gin.Context) {
	services, err := s.catalogSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (s *Server) GetService(c *gin.Context) {
	service, err := s.catalogSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

type createServiceRequest struct {
	Title         string                   `json:"title"`
	Subtitle      string                   `json:"subtitle"`
	Description   string                   `json:"description"`
	HeroParagraph string                   `json:"hero_paragraph"`
	BannerURL     string                   `json:"banner_url"`
	Plans         []catalogdomain.PlanSpec `json:"plans"`
	FAQs          []catalogdomain.FAQSpec  `json:"faqs"`
}

func (s *Server) CreateService(c *gin.Context) {
	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	service, err := s.catalogSvc.CreateWithDetails(c.Request.Context(), catalogdomain.CreateServiceRequest{
		AdminID:       currentPrincipal(c).ID,
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		Description:   req.Description,
		HeroParagraph: req.HeroParagraph,
		BannerURL:     req.BannerURL,
		Plans:         req.Plans,
		FAQs:          req.FAQs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

type updateServiceRequest struct {
	Title         string `json:"title"`
	Subtitle      string `json:"subtitle"`
	Description   string `json:"description"`
	HeroParagraph string `json:"hero_paragraph"`
	BannerURL     string `json:"banner_url"`
}

func (s *Server) UpdateService(c *gin.Context) {
	var req updateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	service, err := s.catalogSvc.Update(c.Request.Context(), catalogdomain.UpdateServiceRequest{
		ID:            c.Param("id"),
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		Description:   req.Description,
		HeroParagraph: req.HeroParagraph,
		BannerURL:     req.BannerURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (s *Server) DeleteService(c *gin.Context) {
	if err := s.catalogSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
