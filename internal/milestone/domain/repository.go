package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, milestone *Milestone) error
	InsertBatch(ctx context.Context, db *gorm.DB, milestones []*Milestone) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Milestone, error)
	FindByRequestID(ctx context.Context, db *gorm.DB, requestID snowflake.ID) ([]*Milestone, error)
	// CountOpenByRequestID counts milestones of the request not yet APPROVED.
	CountOpenByRequestID(ctx context.Context, db *gorm.DB, requestID snowflake.ID) (int64, error)
	Update(ctx context.Context, db *gorm.DB, milestone *Milestone) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
