package domain

import (
	"context"
	"errors"
)

type PlanSpec struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type FAQSpec struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type CreateServiceRequest struct {
	AdminID       string
	Title         string
	Subtitle      string
	Description   string
	HeroParagraph string
	BannerURL     string
	Plans         []PlanSpec
	FAQs          []FAQSpec
}

type UpdateServiceRequest struct {
	ID            string
	Title         string
	Subtitle      string
	Description   string
	HeroParagraph string
	BannerURL     string
}

type CatalogService interface {
	ListPublic(ctx context.Context) ([]PublicService, error)
	List(ctx context.Context) ([]Service, error)
	GetByID(ctx context.Context, id string) (Service, error)
	CreateWithDetails(context.Context, CreateServiceRequest) (Service, error)
	Update(context.Context, UpdateServiceRequest) (Service, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound      = errors.New("service_not_found")
	ErrPlanNotFound  = errors.New("plan_not_found")
	ErrInvalidTitle  = errors.New("invalid_title")
	ErrInvalidPrice  = errors.New("invalid_plan_price")
	ErrInvalidID     = errors.New("invalid_service_id")
	ErrPlansRequired = errors.New("plans_required")
)
