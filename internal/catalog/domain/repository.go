package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, service *Service) error
	InsertPlans(ctx context.Context, db *gorm.DB, plans []*Plan) error
	InsertFAQs(ctx context.Context, db *gorm.DB, faqs []*FAQ) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Service, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*Service, error)
	FindPlanByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Plan, error)
	Update(ctx context.Context, db *gorm.DB, service *Service) error
	SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
