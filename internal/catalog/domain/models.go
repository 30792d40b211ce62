package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Service is one offering in the agency's catalog, sold through its Plans.
type Service struct {
	ID            snowflake.ID   `gorm:"primaryKey" json:"id"`
	AdminID       snowflake.ID   `gorm:"not null;index" json:"admin_id"`
	Title         string         `gorm:"not null" json:"title"`
	Subtitle      string         `json:"subtitle,omitempty"`
	Description   string         `json:"description,omitempty"`
	HeroParagraph string         `json:"hero_paragraph,omitempty"`
	BannerURL     string         `json:"banner_url,omitempty"`
	Plans         []Plan         `gorm:"foreignKey:ServiceID" json:"plans,omitempty"`
	FAQs          []FAQ          `gorm:"foreignKey:ServiceID" json:"faqs,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Plan is a priced tier of a Service. Price is the canonical amount billed
// when a request is initialized; client-supplied prices are never trusted for
// discounts.
type Plan struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ServiceID   snowflake.ID `gorm:"not null;index" json:"service_id"`
	Name        string       `gorm:"not null" json:"name"`
	Price       float64      `gorm:"not null" json:"price"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type FAQ struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ServiceID snowflake.ID `gorm:"not null;index" json:"service_id"`
	Question  string       `gorm:"not null" json:"question"`
	Answer    string       `gorm:"not null" json:"answer"`
}

// PublicService is the trimmed listing shape served without authentication.
type PublicService struct {
	ID            snowflake.ID `json:"id"`
	Title         string       `json:"title"`
	HeroParagraph string       `json:"hero_paragraph,omitempty"`
	BannerURL     string       `json:"banner_url,omitempty"`
}
