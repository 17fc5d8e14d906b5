// Package follows persists the follower graph between profiles.
package follows

import (
	"context"

	"github.com/ottocollect/ottocollect/internal/server/models"
)

type Repository interface {
	// Follow records the edge and reports whether it was newly created.
	Follow(ctx context.Context, followerID, followingID string) (bool, error)
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]models.User, error)
	Following(ctx context.Context, userID string) ([]models.User, error)
	Stats(ctx context.Context, userID string) (models.FollowStats, error)
}
