package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
)

// Actions that earn points.
const (
	ActionAddCollectionItem = "add_collection_item"
	ActionCreateForumPost   = "create_forum_post"
	ActionCreateBlogPost    = "create_blog_post"
	ActionAddComment        = "add_comment"
	ActionCreateListing     = "create_listing"
)

var actionPoints = map[string]int{
	ActionAddCollectionItem: 1,
	ActionCreateForumPost:   2,
	ActionCreateBlogPost:    3,
	ActionAddComment:        1,
	ActionCreateListing:     1,
}

// PointsFor returns the points an action earns, or false for unknown actions.
func PointsFor(action string) (int, bool) {
	p, ok := actionPoints[action]
	return p, ok
}

// PointsService credits activity points and grants badges whose thresholds
// the new total reaches.
type PointsService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	notifications *NotificationService
	log           logging.Logger
}

func NewPointsService(db *sql.DB, m repomanager.RepositoryManager, n *NotificationService, log logging.Logger) *PointsService {
	return &PointsService{db: db, repomanager: m, notifications: n, log: log.With("module", "points")}
}

// Award credits the action's points to the user and returns the new total.
func (s *PointsService) Award(ctx context.Context, userID, action string) (int, error) {
	pts, ok := PointsFor(action)
	if !ok {
		return 0, validationError("unknown action %q", action)
	}

	total, err := s.repomanager.Users(s.db).AddPoints(ctx, userID, pts)
	if err != nil {
		return 0, err
	}

	if err := s.awardBadges(ctx, userID, total); err != nil {
		return total, err
	}
	return total, nil
}

// reward is Award for side effects: failures are logged, not returned.
func (s *PointsService) reward(ctx context.Context, userID, action string) {
	if _, err := s.Award(ctx, userID, action); err != nil {
		s.log.Warn(ctx, "failed to award points", "user_id", userID, "action", action, "error", err)
	}
}

func (s *PointsService) awardBadges(ctx context.Context, userID string, total int) error {
	repo := s.repomanager.Badges(s.db)

	due, err := repo.Unearned(ctx, userID, total)
	if err != nil {
		return err
	}
	for _, b := range due {
		granted, err := repo.Award(ctx, userID, b.ID)
		if err != nil {
			return err
		}
		if !granted {
			continue
		}
		s.log.Info(ctx, "badge awarded", "user_id", userID, "badge", b.Name)
		s.notifications.notify(ctx, userID, models.NotificationBadge,
			fmt.Sprintf("You earned the %s badge", b.Name), strPtr(b.ID), nil)
	}
	return nil
}

func (s *PointsService) Badges(ctx context.Context) ([]models.Badge, error) {
	return s.repomanager.Badges(s.db).List(ctx)
}

func (s *PointsService) UserBadges(ctx context.Context, userID string) ([]models.UserBadge, error) {
	return s.repomanager.Badges(s.db).ListForUser(ctx, userID)
}
