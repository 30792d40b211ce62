package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/brandloom/brandloom/internal/conversation/domain"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, conversation *domain.Conversation) error {
	return db.WithContext(ctx).Omit("ServiceRequest").Create(conversation).Error
}

func (r *repository) FindByRequestID(ctx context.Context, db *gorm.DB, requestID snowflake.ID) (*domain.Conversation, error) {
	var conversation domain.Conversation
	err := db.WithContext(ctx).First(&conversation, "service_request_id = ?", requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *repository) FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.Conversation, error) {
	var conversations []*domain.Conversation
	err := db.WithContext(ctx).
		Joins("JOIN service_requests ON service_requests.id = conversations.service_request_id").
		Where("service_requests.user_id = ?", userID).
		Preload("ServiceRequest").
		Preload("ServiceRequest.Service").
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *repository) FindAll(ctx context.Context, db *gorm.DB) ([]*domain.Conversation, error) {
	var conversations []*domain.Conversation
	err := db.WithContext(ctx).
		Preload("ServiceRequest").
		Preload("ServiceRequest.Service").
		Preload("ServiceRequest.User").
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *repository) Touch(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

func (r *repository) InsertMessage(ctx context.Context, db *gorm.DB, message *domain.Message) error {
	return db.WithContext(ctx).Omit("Sender").Create(message).Error
}

func (r *repository) FindMessagesByConversationID(ctx context.Context, db *gorm.DB, conversationID snowflake.ID) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := db.WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *repository) FindLastMessage(ctx context.Context, db *gorm.DB, conversationID snowflake.ID) (*domain.Message, error) {
	var message domain.Message
	err := db.WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}
