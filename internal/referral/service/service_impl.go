package service

import (
	"context"
	"net/mail"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brandloom/brandloom/internal/referral/domain"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &service{
		db:   p.DB,
		log:  p.Log,
		repo: p.Repo,
	}
}

func (s *service) ValidateEmail(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return domain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.ErrInvalidEmail
	}

	existing, err := s.repo.FindCompletedByEmail(ctx, s.db, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrAlreadyReferred
	}
	return nil
}
