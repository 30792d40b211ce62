package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brandloom/brandloom/internal/conversation/domain"
	requestdomain "github.com/brandloom/brandloom/internal/servicerequest/domain"
	userdomain "github.com/brandloom/brandloom/internal/user/domain"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Requests requestdomain.Repository
	Users    userdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	requests requestdomain.Repository
	users    userdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("conversation.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		requests: p.Requests,
		users:    p.Users,
	}
}

func (s *Service) GetMessages(ctx context.Context, principal domain.Principal, serviceRequestID string) ([]domain.Message, error) {
	requestID, err := parseID(serviceRequestID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, principal, requestID); err != nil {
		return nil, err
	}

	conversation, err := s.repo.FindByRequestID(ctx, s.db, requestID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return []domain.Message{}, nil
	}

	items, err := s.repo.FindMessagesByConversationID(ctx, s.db, conversation.ID)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(items))
	for _, item := range items {
		messages = append(messages, *item)
	}
	return messages, nil
}

func (s *Service) CreateMessage(ctx context.Context, principal domain.Principal, serviceRequestID, text string) (domain.Message, error) {
	requestID, err := parseID(serviceRequestID)
	if err != nil {
		return domain.Message{}, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}

	if err := s.authorize(ctx, principal, requestID); err != nil {
		return domain.Message{}, err
	}

	senderID, err := snowflake.ParseString(principal.ID)
	if err != nil || senderID == 0 {
		return domain.Message{}, domain.ErrInvalidID
	}

	now := time.Now().UTC()
	var message domain.Message
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conversation, err := s.repo.FindByRequestID(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if conversation == nil {
			conversation = &domain.Conversation{
				ID:               s.genID.Generate(),
				ServiceRequestID: requestID,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := s.repo.Insert(ctx, tx, conversation); err != nil {
				return err
			}
		} else if err := s.repo.Touch(ctx, tx, conversation.ID); err != nil {
			return err
		}

		message = domain.Message{
			ID:             s.genID.Generate(),
			ConversationID: conversation.ID,
			SenderID:       senderID,
			Text:           text,
			CreatedAt:      now,
		}
		return s.repo.InsertMessage(ctx, tx, &message)
	})
	if err != nil {
		return domain.Message{}, err
	}

	if sender, err := s.users.FindByID(ctx, s.db, senderID); err == nil && sender != nil {
		message.Sender = sender
	}
	return message, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.ConversationPreview, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	conversations, err := s.repo.FindByUserID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return s.buildPreviews(ctx, conversations)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.ConversationPreview, error) {
	conversations, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return s.buildPreviews(ctx, conversations)
}

func (s *Service) buildPreviews(ctx context.Context, conversations []*domain.Conversation) ([]domain.ConversationPreview, error) {
	previews := make([]domain.ConversationPreview, 0, len(conversations))
	for _, conversation := range conversations {
		preview := domain.ConversationPreview{Conversation: *conversation}
		if request := conversation.ServiceRequest; request != nil {
			preview.RequestStatus = request.Status
			if request.Service != nil {
				preview.ServiceTitle = request.Service.Title
			}
			if request.User != nil {
				preview.ClientName = request.User.Name
			}
		}

		last, err := s.repo.FindLastMessage(ctx, s.db, conversation.ID)
		if err != nil {
			return nil, err
		}
		preview.LastMessage = last
		previews = append(previews, preview)
	}
	return previews, nil
}

func (s *Service) authorize(ctx context.Context, principal domain.Principal, requestID snowflake.ID) error {
	request, err := s.requests.FindByID(ctx, s.db, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return requestdomain.ErrNotFound
	}
	if !principal.Admin && request.UserID.String() != principal.ID {
		return domain.ErrNotParticipant
	}
	return nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
