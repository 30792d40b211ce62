package domain

import (
	"context"
	"errors"
)

type CreateOrganizationRequest struct {
	UserID                 string
	Name                   string
	Email                  string
	Address                string
	Country                string
	Industry               string
	RCNumber               string
	StaffSize              string
	Type                   string
	LogoURL                string
	CertOfIncURL           string
	MemOfAssocURL          string
	ProofOfAddressURL      string
	CompanyStatusReportURL string
}

type UpdateOrganizationRequest struct {
	ID        string
	Name      string
	Email     string
	Address   string
	Country   string
	Industry  string
	RCNumber  string
	StaffSize string
	Type      string
	LogoURL   string
}

type CreateContactRequest struct {
	OrganizationID string
	Name           string
	PfpURL         string
	IDURLs         []string
}

type UpdateContactRequest struct {
	ID     string
	Name   string
	PfpURL string
	IDURLs []string
}

type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (Organization, error)
	GetByID(ctx context.Context, id string) (Organization, error)
	List(ctx context.Context) ([]Organization, error)
	Update(ctx context.Context, req UpdateOrganizationRequest) (Organization, error)
	Delete(ctx context.Context, id string) error

	CreateContact(ctx context.Context, req CreateContactRequest) (Contact, error)
	GetContact(ctx context.Context, id string) (Contact, error)
	ListContacts(ctx context.Context) ([]Contact, error)
	UpdateContact(ctx context.Context, req UpdateContactRequest) (Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

var (
	ErrNotFound        = errors.New("organization_not_found")
	ErrContactNotFound = errors.New("contact_not_found")
	ErrInvalidName     = errors.New("invalid_organization_name")
	ErrInvalidEmail    = errors.New("invalid_organization_email")
	ErrInvalidID       = errors.New("invalid_organization_id")
)
