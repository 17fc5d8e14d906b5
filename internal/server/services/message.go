package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/realtime"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
)

const (
	maxMessageLength         = 5000
	defaultConversationLimit = 100
)

type MessageService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	publisher     realtime.Publisher
	notifications *NotificationService
	log           logging.Logger
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, p realtime.Publisher, n *NotificationService, log logging.Logger) *MessageService {
	return &MessageService{db: db, repomanager: m, publisher: p, notifications: n, log: log.With("module", "messages")}
}

// Send stores a direct message, pushes it to both participants and leaves
// the receiver a notification. referenceID optionally points at a
// collection item the message is about.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, content string, referenceID *string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationError("message is empty")
	}
	if len(content) > maxMessageLength {
		return nil, validationError("message is longer than %d bytes", maxMessageLength)
	}
	if senderID == receiverID {
		return nil, validationError("cannot message yourself")
	}
	if referenceID != nil && blank(*referenceID) {
		referenceID = nil
	}

	usersRepo := s.repomanager.Users(s.db)
	sender, err := usersRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := usersRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	msg, err := s.repomanager.Messages(s.db).Create(ctx, &models.Message{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     content,
		ReferenceID: referenceID,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishMessage(receiverID, msg)
	s.publisher.PublishMessage(senderID, msg)
	s.notifications.notify(ctx, receiverID, models.NotificationMessage,
		fmt.Sprintf("New message from %s", sender.Username), strPtr(msg.ID), strPtr(senderID))
	return msg, nil
}

func (s *MessageService) Conversation(ctx context.Context, userID, otherID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = defaultConversationLimit
	}
	return s.repomanager.Messages(s.db).Conversation(ctx, userID, otherID, limit)
}

func (s *MessageService) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.repomanager.Messages(s.db).Conversations(ctx, userID)
}

func (s *MessageService) MarkRead(ctx context.Context, userID, messageID string) error {
	return s.repomanager.Messages(s.db).MarkRead(ctx, userID, messageID)
}

func (s *MessageService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repomanager.Messages(s.db).UnreadCount(ctx, userID)
}
