package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/brandloom/brandloom/internal/servicerequest/domain"
	"github.com/brandloom/brandloom/pkg/db/pagination"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, request *domain.ServiceRequest) error {
	return db.WithContext(ctx).Omit("User", "Service", "Invoice", "Milestones").Create(request).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.ServiceRequest, error) {
	var request domain.ServiceRequest
	err := db.WithContext(ctx).First(&request, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindDetailedByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.ServiceRequest, error) {
	var request domain.ServiceRequest
	err := db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Preload("Service.Plans").
		Preload("Invoice").
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("deadline ASC")
		}).
		First(&request, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindAll(ctx context.Context, db *gorm.DB, cursor *pagination.Cursor, limit int) ([]*domain.ServiceRequest, error) {
	var requests []*domain.ServiceRequest
	stmt := db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Preload("Invoice")
	if cursor != nil {
		stmt = stmt.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	if limit > 0 {
		stmt = stmt.Limit(limit + 1)
	}
	err := stmt.
		Order("created_at DESC, id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.ServiceRequest, error) {
	var requests []*domain.ServiceRequest
	err := db.WithContext(ctx).
		Preload("Service").
		Preload("Invoice").
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("deadline ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string) error {
	return db.WithContext(ctx).
		Model(&domain.ServiceRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
