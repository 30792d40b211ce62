package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/brandloom/brandloom/internal/milestone/domain"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, milestone *domain.Milestone) error {
	return db.WithContext(ctx).Create(milestone).Error
}

func (r *repository) InsertBatch(ctx context.Context, db *gorm.DB, milestones []*domain.Milestone) error {
	if len(milestones) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(milestones).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Milestone, error) {
	var milestone domain.Milestone
	err := db.WithContext(ctx).First(&milestone, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &milestone, nil
}

func (r *repository) FindByRequestID(ctx context.Context, db *gorm.DB, requestID snowflake.ID) ([]*domain.Milestone, error) {
	var milestones []*domain.Milestone
	err := db.WithContext(ctx).
		Where("service_request_id = ?", requestID).
		Order("deadline ASC").
		Find(&milestones).Error
	if err != nil {
		return nil, err
	}
	return milestones, nil
}

func (r *repository) CountOpenByRequestID(ctx context.Context, db *gorm.DB, requestID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Milestone{}).
		Where("service_request_id = ? AND status <> ?", requestID, domain.StatusApproved).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, milestone *domain.Milestone) error {
	return db.WithContext(ctx).Save(milestone).Error
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Milestone{}, "id = ?", id).Error
}
