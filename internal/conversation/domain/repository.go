package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, conversation *Conversation) error
	FindByRequestID(ctx context.Context, db *gorm.DB, requestID snowflake.ID) (*Conversation, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*Conversation, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*Conversation, error)
	Touch(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertMessage(ctx context.Context, db *gorm.DB, message *Message) error
	FindMessagesByConversationID(ctx context.Context, db *gorm.DB, conversationID snowflake.ID) ([]*Message, error)
	FindLastMessage(ctx context.Context, db *gorm.DB, conversationID snowflake.ID) (*Message, error)
}
