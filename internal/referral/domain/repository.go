package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, referral *Referral) error
	FindCompletedByEmail(ctx context.Context, db *gorm.DB, email string) (*Referral, error)
	Complete(ctx context.Context, db *gorm.DB, id, invoiceID snowflake.ID) error
}
