package repository

import (
	"context"
	"errors"

	"github.com/brandloom/brandloom/internal/catalog/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, service *domain.Service) error {
	return db.WithContext(ctx).Omit("Plans", "FAQs").Create(service).Error
}

func (r *repo) InsertPlans(ctx context.Context, db *gorm.DB, plans []*domain.Plan) error {
	if len(plans) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(plans).Error
}

func (r *repo) InsertFAQs(ctx context.Context, db *gorm.DB, faqs []*domain.FAQ) error {
	if len(faqs) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(faqs).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Service, error) {
	var service domain.Service
	err := db.WithContext(ctx).
		Preload("Plans").
		Preload("FAQs").
		First(&service, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]*domain.Service, error) {
	var services []*domain.Service
	err := db.WithContext(ctx).
		Preload("Plans").
		Order("created_at desc, id desc").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repo) FindPlanByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, service *domain.Service) error {
	return db.WithContext(ctx).Omit("Plans", "FAQs").Save(service).Error
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Service{}, "id = ?", id).Error
}
