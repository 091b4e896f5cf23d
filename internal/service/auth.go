package service

import (
	"context"
	"errors"

	"github.com/kripesh01/admin-rbac/internal/events"
	"github.com/kripesh01/admin-rbac/internal/hash"
	"github.com/kripesh01/admin-rbac/internal/logging"
	"github.com/kripesh01/admin-rbac/internal/models"
	"github.com/kripesh01/admin-rbac/internal/repo"
	"github.com/kripesh01/admin-rbac/internal/tokens"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("inactive user")
	ErrTokenRevoked       = errors.New("token has been blacklisted")
	ErrPasswordMismatch   = errors.New("current password did not match")
)

// AuthService orchestrates the refresh-token lineage: issued, refreshed any
// number of times, revoked (terminal).
type AuthService struct {
	Repo   *repo.GormRepo
	Codec  *tokens.Codec
	Hasher hash.Hasher
	Events *events.Producer
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
	Permissions  []repo.ModulePermissions
}

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}

// Login verifies credentials, issues an access+refresh pair and records the
// refresh token in the ledger. Exactly one ledger row per login; when the
// ledger write fails the whole login fails so no live token escapes
// unrecorded.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.Hasher.Check(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	accessToken, _, err := s.Codec.NewAccessToken(user.ID, user.Phone)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshClaims, err := s.Codec.NewRefreshToken(user.ID, user.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RecordToken(ctx, refreshClaims.ID, refreshToken, user.ID, refreshClaims.ExpiresAt.Time); err != nil {
		l.Error("token_ledger_write_failed", "error", err)
		return nil, err
	}

	permissions := []repo.ModulePermissions{}
	if user.RoleID != nil {
		permissions, err = s.Repo.ModulePermissionNames(ctx, *user.RoleID)
		if err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.Event{Type: events.TypeLogin, UserID: user.ID, Phone: user.Phone})

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		Permissions:  permissions,
	}, nil
}

// Refresh exchanges a valid, non-revoked refresh token for a new access
// token. The refresh token itself is returned unchanged; rotation on use is
// deliberately not performed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.Codec.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	blacklisted, err := s.Repo.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrTokenRevoked
	}

	// The jti must exist in the ledger and belong to the claimed user.
	if _, err := s.Repo.MatchToken(ctx, claims.ID, claims.UserID); err != nil {
		if errors.Is(err, repo.ErrTokenNotFound) {
			return nil, tokens.ErrTokenInvalid
		}
		return nil, err
	}

	accessToken, _, err := s.Codec.NewAccessToken(claims.UserID, claims.Phone)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.TypeRefresh, UserID: claims.UserID})

	return &RefreshResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout blacklists the refresh token's jti. Logging out an already-revoked
// token is an error, not a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.Codec.ParseRefresh(refreshToken)
	if err != nil {
		return err
	}

	if err := s.Repo.BlacklistToken(ctx, claims.ID); err != nil {
		if errors.Is(err, repo.ErrTokenNotFound) {
			return tokens.ErrTokenInvalid
		}
		return err
	}

	s.publish(ctx, events.Event{Type: events.TypeLogout, UserID: claims.UserID})
	return nil
}

// ResetPassword replaces the caller's password after verifying the current
// one.
func (s *AuthService) ResetPassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	if !s.Hasher.Check(user.Password, currentPassword) {
		return ErrPasswordMismatch
	}

	hashed, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateUserPassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.TypePasswordReset, UserID: user.ID})
	return nil
}

// publish is best effort: an audit failure is logged, never surfaced to the
// request.
func (s *AuthService) publish(ctx context.Context, ev events.Event) {
	if err := s.Events.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("audit_publish_failed", "type", ev.Type, "error", err)
	}
}
