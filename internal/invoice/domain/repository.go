package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*Invoice, error)
	FindByReference(ctx context.Context, db *gorm.DB, reference string) (*Invoice, error)
	SetPaymentReference(ctx context.Context, db *gorm.DB, id snowflake.ID, reference string) error
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, method string) error
}
