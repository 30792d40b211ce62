package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/brandloom/brandloom/internal/referral/domain"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, referral *domain.Referral) error {
	return db.WithContext(ctx).Create(referral).Error
}

func (r *repository) FindCompletedByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Referral, error) {
	var referral domain.Referral
	err := db.WithContext(ctx).
		Where("referred_email = ? AND status = ?", email, domain.StatusCompleted).
		First(&referral).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &referral, nil
}

func (r *repository) Complete(ctx context.Context, db *gorm.DB, id, invoiceID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Referral{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     domain.StatusCompleted,
			"invoice_id": invoiceID,
			"updated_at": time.Now(),
		}).Error
}
