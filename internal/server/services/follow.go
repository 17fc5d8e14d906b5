package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
)

type FollowService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	notifications *NotificationService
	log           logging.Logger
}

func NewFollowService(db *sql.DB, m repomanager.RepositoryManager, n *NotificationService, log logging.Logger) *FollowService {
	return &FollowService{db: db, repomanager: m, notifications: n, log: log.With("module", "follows")}
}

// Follow makes followerID follow followingID. Following twice is a no-op;
// only the first follow notifies the followee.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return validationError("cannot follow yourself")
	}

	usersRepo := s.repomanager.Users(s.db)
	follower, err := usersRepo.GetByID(ctx, followerID)
	if err != nil {
		return err
	}
	if _, err := usersRepo.GetByID(ctx, followingID); err != nil {
		return err
	}

	created, err := s.repomanager.Follows(s.db).Follow(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if created {
		s.notifications.notify(ctx, followingID, models.NotificationFollow,
			fmt.Sprintf("%s started following you", follower.Username), nil, strPtr(followerID))
	}
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID string) error {
	return s.repomanager.Follows(s.db).Unfollow(ctx, followerID, followingID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.repomanager.Follows(s.db).IsFollowing(ctx, followerID, followingID)
}

func (s *FollowService) Followers(ctx context.Context, userID string) ([]models.User, error) {
	return s.repomanager.Follows(s.db).Followers(ctx, userID)
}

func (s *FollowService) Following(ctx context.Context, userID string) ([]models.User, error) {
	return s.repomanager.Follows(s.db).Following(ctx, userID)
}

func (s *FollowService) Stats(ctx context.Context, userID string) (models.FollowStats, error) {
	return s.repomanager.Follows(s.db).Stats(ctx, userID)
}
