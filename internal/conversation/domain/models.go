package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	requestdomain "github.com/brandloom/brandloom/internal/servicerequest/domain"
	userdomain "github.com/brandloom/brandloom/internal/user/domain"
)

// Conversation is the single chat thread attached to a service request. It is
// created lazily by the first message.
type Conversation struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	ServiceRequestID snowflake.ID `gorm:"not null;uniqueIndex" json:"service_request_id"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	ServiceRequest *requestdomain.ServiceRequest `gorm:"foreignKey:ServiceRequestID" json:"service_request,omitempty"`
}

type Message struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	ConversationID snowflake.ID `gorm:"not null;index" json:"conversation_id"`
	SenderID       snowflake.ID `gorm:"not null;index" json:"sender_id"`
	Text           string       `gorm:"not null" json:"text"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Sender *userdomain.User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// ConversationPreview is the list shape: the conversation plus what the inbox
// shows for it.
type ConversationPreview struct {
	Conversation  Conversation `json:"conversation"`
	ServiceTitle  string       `json:"service_title,omitempty"`
	RequestStatus string       `json:"request_status,omitempty"`
	ClientName    string       `json:"client_name,omitempty"`
	LastMessage   *Message     `json:"last_message,omitempty"`
}
