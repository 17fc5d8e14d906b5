package services

import (
	"context"
	"database/sql"

	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/realtime"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

var notificationTypes = map[string]bool{
	models.NotificationMessage:     true,
	models.NotificationFollow:      true,
	models.NotificationComment:     true,
	models.NotificationBadge:       true,
	models.NotificationMarketplace: true,
	models.NotificationSystem:      true,
}

// NotificationService persists notifications and pushes each new one to the
// recipient's realtime topic.
type NotificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publisher   realtime.Publisher
	log         logging.Logger
}

func NewNotificationService(db *sql.DB, m repomanager.RepositoryManager, p realtime.Publisher, log logging.Logger) *NotificationService {
	return &NotificationService{db: db, repomanager: m, publisher: p, log: log.With("module", "notifications")}
}

// Create stores a notification for userID and publishes it.
func (s *NotificationService) Create(ctx context.Context, userID, typ, content string, referenceID, actorID *string) (*models.Notification, error) {
	if !notificationTypes[typ] {
		return nil, validationError("unknown notification type %q", typ)
	}
	if blank(userID) || blank(content) {
		return nil, validationError("recipient and content are required")
	}

	n, err := s.repomanager.Notifications(s.db).Create(ctx, &models.Notification{
		UserID:      userID,
		Type:        typ,
		Content:     content,
		ReferenceID: referenceID,
		ActorID:     actorID,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishNotification(userID, n)
	s.log.Debug(ctx, "notification sent", "user_id", userID, "type", typ)
	return n, nil
}

// notify is Create for side effects: failures are logged, not returned.
func (s *NotificationService) notify(ctx context.Context, userID, typ, content string, referenceID, actorID *string) {
	if _, err := s.Create(ctx, userID, typ, content, referenceID, actorID); err != nil {
		s.log.Warn(ctx, "failed to create notification", "user_id", userID, "type", typ, "error", err)
	}
}

func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	return s.repomanager.Notifications(s.db).List(ctx, userID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.repomanager.Notifications(s.db).MarkRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repomanager.Notifications(s.db).MarkAllRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repomanager.Notifications(s.db).UnreadCount(ctx, userID)
}
