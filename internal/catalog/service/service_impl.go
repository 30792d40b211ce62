package service

import (
	"context"
	"strings"
	"time"

	"github.com/brandloom/brandloom/internal/catalog/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.CatalogService {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) ListPublic(ctx context.Context) ([]domain.PublicService, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PublicService, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, domain.PublicService{
			ID:            item.ID,
			Title:         item.Title,
			HeroParagraph: item.HeroParagraph,
			BannerURL:     item.BannerURL,
		})
	}
	return out, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Service, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	services := make([]domain.Service, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		services = append(services, *item)
	}
	return services, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Service, error) {
	serviceID, err := parseID(id)
	if err != nil {
		return domain.Service{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, serviceID)
	if err != nil {
		return domain.Service{}, err
	}
	if item == nil {
		return domain.Service{}, domain.ErrNotFound
	}
	return *item, nil
}

// CreateWithDetails creates the service record and its plans and FAQs in one
// transaction so a half-built catalog entry is never visible.
func (s *Service) CreateWithDetails(ctx context.Context, req domain.CreateServiceRequest) (domain.Service, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Service{}, domain.ErrInvalidTitle
	}
	if len(req.Plans) == 0 {
		return domain.Service{}, domain.ErrPlansRequired
	}
	for _, plan := range req.Plans {
		if plan.Price < 0 {
			return domain.Service{}, domain.ErrInvalidPrice
		}
	}

	adminID, err := snowflake.ParseString(strings.TrimSpace(req.AdminID))
	if err != nil || adminID == 0 {
		return domain.Service{}, domain.ErrInvalidID
	}

	now := time.Now().UTC()
	record := domain.Service{
		ID:            s.genID.Generate(),
		AdminID:       adminID,
		Title:         title,
		Subtitle:      strings.TrimSpace(req.Subtitle),
		Description:   req.Description,
		HeroParagraph: req.HeroParagraph,
		BannerURL:     strings.TrimSpace(req.BannerURL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &record); err != nil {
			return err
		}

		plans := make([]*domain.Plan, 0, len(req.Plans))
		for _, spec := range req.Plans {
			plans = append(plans, &domain.Plan{
				ID:          s.genID.Generate(),
				ServiceID:   record.ID,
				Name:        strings.TrimSpace(spec.Name),
				Price:       spec.Price,
				Description: spec.Description,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
		if err := s.repo.InsertPlans(ctx, tx, plans); err != nil {
			return err
		}

		faqs := make([]*domain.FAQ, 0, len(req.FAQs))
		for _, spec := range req.FAQs {
			faqs = append(faqs, &domain.FAQ{
				ID:        s.genID.Generate(),
				ServiceID: record.ID,
				Question:  strings.TrimSpace(spec.Question),
				Answer:    spec.Answer,
			})
		}
		return s.repo.InsertFAQs(ctx, tx, faqs)
	})
	if err != nil {
		return domain.Service{}, err
	}

	created, err := s.repo.FindByID(ctx, s.db, record.ID)
	if err != nil {
		return domain.Service{}, err
	}
	if created == nil {
		return domain.Service{}, domain.ErrNotFound
	}
	return *created, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateServiceRequest) (domain.Service, error) {
	serviceID, err := parseID(req.ID)
	if err != nil {
		return domain.Service{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, serviceID)
	if err != nil {
		return domain.Service{}, err
	}
	if item == nil {
		return domain.Service{}, domain.ErrNotFound
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		item.Title = title
	}
	if subtitle := strings.TrimSpace(req.Subtitle); subtitle != "" {
		item.Subtitle = subtitle
	}
	if req.Description != "" {
		item.Description = req.Description
	}
	if req.HeroParagraph != "" {
		item.HeroParagraph = req.HeroParagraph
	}
	if banner := strings.TrimSpace(req.BannerURL); banner != "" {
		item.BannerURL = banner
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Service{}, err
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	serviceID, err := parseID(id)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, serviceID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	return s.repo.SoftDelete(ctx, s.db, serviceID)
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
