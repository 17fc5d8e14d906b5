// Package badges persists badge definitions and the badges users hold.
package badges

import (
	"context"

	"github.com/ottocollect/ottocollect/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Badge, error)
	ListForUser(ctx context.Context, userID string) ([]models.UserBadge, error)
	// Unearned returns badges whose threshold is at most points and which the
	// user does not hold yet, lowest threshold first.
	Unearned(ctx context.Context, userID string, points int) ([]models.Badge, error)
	// Award grants a badge and reports whether the user did not have it before.
	Award(ctx context.Context, userID, badgeID string) (bool, error)
}
