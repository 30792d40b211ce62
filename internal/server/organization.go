package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	organizationdomain "github.com/brandloom/brandloom/internal/organization/domain"
)

type organizationRequest struct {
	Name                   string `json:"name"`
	Email                  string `json:"email"`
	Address                string `json:"address"`
	Country                string `json:"country"`
	Industry               string `json:"industry"`
	RCNumber               string `json:"rc_number"`
	StaffSize              string `json:"staff_size"`
	Type                   string `json:"type"`
	LogoURL                string `json:"logo_url"`
	CertOfIncURL           string `json:"cert_of_inc_url"`
	MemOfAssocURL          string `json:"mem_of_assoc_url"`
	ProofOfAddressURL      string `json:"proof_of_address_url"`
	CompanyStatusReportURL string `json:"company_status_report_url"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	var req organizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	org, err := s.organizationSvc.Create(c.Request.Context(), organizationdomain.CreateOrganizationRequest{
		UserID:                 currentPrincipal(c).ID,
		Name:                   req.Name,
		Email:                  req.Email,
		Address:                req.Address,
		Country:                req.Country,
		Industry:               req.Industry,
		RCNumber:               req.RCNumber,
		StaffSize:              req.StaffSize,
		Type:                   req.Type,
		LogoURL:                req.LogoURL,
		CertOfIncURL:           req.CertOfIncURL,
		MemOfAssocURL:          req.MemOfAssocURL,
		ProofOfAddressURL:      req.ProofOfAddressURL,
		CompanyStatusReportURL: req.CompanyStatusReportURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, org)
}

func (s *Server) GetOrganization(c *gin.Context) {
	org, err := s.organizationSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (s *Server) ListOrganizations(c *gin.Context) {
	orgs, err := s.organizationSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

func (s *Server) UpdateOrganization(c *gin.Context) {
	var req organizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	org, err := s.organizationSvc.Update(c.Request.Context(), organizationdomain.UpdateOrganizationRequest{
		ID:        c.Param("id"),
		Name:      req.Name,
		Email:     req.Email,
		Address:   req.Address,
		Country:   req.Country,
		Industry:  req.Industry,
		RCNumber:  req.RCNumber,
		StaffSize: req.StaffSize,
		Type:      req.Type,
		LogoURL:   req.LogoURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (s *Server) DeleteOrganization(c *gin.Context) {
	if err := s.organizationSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type contactRequest struct {
	OrganizationID string   `json:"organization_id"`
	Name           string   `json:"name"`
	PfpURL         string   `json:"pfp_url"`
	IDURLs         []string `json:"id_urls"`
}

func (s *Server) CreateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	contact, err := s.organizationSvc.CreateContact(c.Request.Context(), organizationdomain.CreateContactRequest{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		PfpURL:         req.PfpURL,
		IDURLs:         req.IDURLs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (s *Server) GetContact(c *gin.Context) {
	contact, err := s.organizationSvc.GetContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (s *Server) ListContacts(c *gin.Context) {
	contacts, err := s.organizationSvc.ListContacts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

func (s *Server) UpdateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	contact, err := s.organizationSvc.UpdateContact(c.Request.Context(), organizationdomain.UpdateContactRequest{
		ID:     c.Param("id"),
		Name:   req.Name,
		PfpURL: req.PfpURL,
		IDURLs: req.IDURLs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (s *Server) DeleteContact(c *gin.Context) {
	if err := s.organizationSvc.DeleteContact(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
