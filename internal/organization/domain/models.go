package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Organization is a client company profile with its KYC document URLs. The
// documents themselves live behind the storage provider; only public URLs are
// kept here.
type Organization struct {
	ID                     snowflake.ID   `gorm:"primaryKey" json:"id"`
	UserID                 snowflake.ID   `gorm:"not null;index" json:"user_id"`
	Name                   string         `gorm:"not null" json:"name"`
	Email                  string         `gorm:"not null" json:"email"`
	Address                string         `json:"address,omitempty"`
	Country                string         `json:"country,omitempty"`
	Industry               string         `json:"industry,omitempty"`
	RCNumber               string         `json:"rc_number,omitempty"`
	StaffSize              string         `json:"staff_size,omitempty"`
	Type                   string         `json:"type,omitempty"`
	LogoURL                string         `json:"logo_url,omitempty"`
	CertOfIncURL           string         `json:"cert_of_inc_url,omitempty"`
	MemOfAssocURL          string         `json:"mem_of_assoc_url,omitempty"`
	ProofOfAddressURL      string         `json:"proof_of_address_url,omitempty"`
	CompanyStatusReportURL string         `json:"company_status_report_url,omitempty"`
	CreatedAt              time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt              time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`

	Contacts []Contact `gorm:"foreignKey:OrganizationID" json:"contacts,omitempty"`
}

// Contact is a person attached to an organization. IDURLs holds the uploaded
// identity document URLs as a JSON array.
type Contact struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrganizationID snowflake.ID   `gorm:"not null;index" json:"organization_id"`
	Name           string         `gorm:"not null" json:"name"`
	PfpURL         string         `json:"pfp_url,omitempty"`
	IDURLs         datatypes.JSON `json:"id_urls,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
