package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/auth"
	"github.com/ottocollect/ottocollect/internal/server/config"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
	"github.com/ottocollect/ottocollect/internal/server/repositories/users"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 30
	refreshTokenBytes = 32
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserService handles accounts and sessions:
//   - Register / Login / RefreshToken / Logout
//   - profile reads and updates
//   - account removal by admins
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	clock                        clock.Clock
	log                          logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, clk clock.Clock, log logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		clock:                        clk,
		log:                          log.With("module", "users"),
	}
}

func validateUsername(username string) error {
	n := len([]rune(username))
	if n < minUsernameLength || n > maxUsernameLength {
		return validationError("username must be %d-%d characters", minUsernameLength, maxUsernameLength)
	}
	if strings.ContainsAny(username, " \t\n/@") {
		return validationError("username contains forbidden characters")
	}
	return nil
}

// Register creates a regular user. Duplicate emails or usernames yield
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("invalid email")
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, validationError("%v", err)
		}
		return nil, common.ErrorInternal
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the password and mints a TokenPair. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, user, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(s.clock.Now()) {
		_ = repo.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		pair, err = s.generateTokenPair(ctx, user, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes a refresh token.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	return s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

func (s *UserService) ProfileByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByUsername(ctx, username)
}

// UpdateProfile changes the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd users.ProfileUpdate) (*models.User, error) {
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		if err := validateUsername(name); err != nil {
			return nil, err
		}
		upd.Username = &name
	}
	return s.repomanager.Users(s.db).UpdateProfile(ctx, userID, upd)
}

// SetRole promotes or demotes a user. Only super admins may hand out roles.
func (s *UserService) SetRole(ctx context.Context, caller Actor, targetID, role string) error {
	if caller.Role != models.RoleSuperAdmin {
		return common.ErrorForbidden
	}
	switch role {
	case models.RoleUser, models.RoleAdmin, models.RoleSuperAdmin:
	default:
		return validationError("unknown role %q", role)
	}
	return s.repomanager.Users(s.db).SetRole(ctx, targetID, role)
}

// DeleteUser removes a user account together with its sessions. The caller
// must be an admin; a missing target yields common.ErrorNotFound.
func (s *UserService) DeleteUser(ctx context.Context, callerID, targetID string) error {
	if blank(targetID) {
		return validationError("user id is required")
	}

	caller, err := s.repomanager.Users(s.db).GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return err
	}
	if !caller.IsAdmin() {
		return common.ErrorForbidden
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		target, err := s.repomanager.Users(tx).GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if target.Role == models.RoleSuperAdmin && caller.Role != models.RoleSuperAdmin {
			return common.ErrorForbidden
		}
		if err := s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, targetID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, targetID)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "user deleted", "user_id", targetID, "by", callerID)
	return nil
}

// PurgeExpiredSessions drops refresh tokens that are past their expiry.
func (s *UserService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.clock.Now())
}

// --- helpers below ---

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(refreshTokenBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}
	expires := s.clock.Now().Add(s.refreshTokenValidityDuration)
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, expires); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
