package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/brandloom/brandloom/pkg/db/pagination"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, request *ServiceRequest) error
	// FindByID loads the bare row, no associations.
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ServiceRequest, error)
	// FindDetailedByID preloads user, service (with plans), invoice and
	// milestones ordered by deadline.
	FindDetailedByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ServiceRequest, error)
	// FindAll returns up to limit+1 rows after the cursor, newest first. The
	// extra row lets the caller detect another page.
	FindAll(ctx context.Context, db *gorm.DB, cursor *pagination.Cursor, limit int) ([]*ServiceRequest, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*ServiceRequest, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string) error
}
