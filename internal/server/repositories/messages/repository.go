// Package messages persists direct messages between users.
package messages

import (
	"context"

	"github.com/ottocollect/ottocollect/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Message) (*models.Message, error)
	// Conversation returns messages exchanged by two users, oldest first.
	Conversation(ctx context.Context, userID, otherID string, limit int) ([]models.Message, error)
	// Conversations returns the latest message per counterpart, newest first.
	Conversations(ctx context.Context, userID string) ([]models.Conversation, error)
	// MarkRead flags a message read; only its receiver may do so.
	MarkRead(ctx context.Context, userID, messageID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}
