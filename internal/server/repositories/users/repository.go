// Package users declares the persistence contract for OttoCollect profiles.
package users

import (
	"context"

	"github.com/ottocollect/ottocollect/internal/server/models"
)

// ProfileUpdate carries the profile fields a user may change. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Username  *string
	About     *string
	AvatarURL *string
	CountryID *string
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.User, error)
	SetRole(ctx context.Context, id, role string) error
	// AddPoints increments the user's points and returns the new total.
	AddPoints(ctx context.Context, id string, delta int) (int, error)
	Delete(ctx context.Context, id string) error
}
