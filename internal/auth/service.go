package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stockroom/stockroom/internal/platform/upstream"
	"github.com/stockroom/stockroom/internal/shared"
)

// Service owns the session lifecycle against the upstream token endpoints:
// init on login, refresh on expiry, teardown on logout or rejection.
type Service struct {
	api      *upstream.Client
	sessions *SessionManager
	logger   *slog.Logger
}

// NewService constructs a new Service.
func NewService(api *upstream.Client, sessions *SessionManager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, sessions: sessions, logger: logger}
}

// Login exchanges credentials for an upstream token pair, resolves the
// user identity, and initialises the session.
func (s *Service) Login(ctx context.Context, sess *Session, creds Credentials) (*User, error) {
	var tokens TokenPair
	err := s.api.Post(ctx, "", "/token/", creds, &tokens)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	var user User
	if err := s.api.Get(ctx, tokens.Access, "/users/me/", &user); err != nil {
		return nil, fmt.Errorf("resolve current user: %w", err)
	}

	sess.SetTokens(tokens.Access, tokens.Refresh)
	sess.SetIdentity(user)
	return &user, nil
}

// Logout tears the session down.
func (s *Service) Logout(sess *Session) {
	s.sessions.Destroy(sess)
}

// Exec runs fn with the session's access token. When the upstream rejects
// the token, the refresh token is exchanged once and fn retried; a second
// rejection tears the session down and forces re-authentication.
func (s *Service) Exec(ctx context.Context, sess *Session, fn func(token string) error) error {
	if !sess.Authenticated() {
		return shared.ErrUnauthorized
	}

	err := fn(sess.AccessToken())
	if err == nil || !errors.Is(err, shared.ErrUnauthorized) {
		return err
	}

	if refreshErr := s.refresh(ctx, sess); refreshErr != nil {
		s.logger.Info("token refresh failed, ending session", slog.Int64("user_id", sess.UserID()), slog.Any("error", refreshErr))
		s.sessions.Destroy(sess)
		return shared.ErrUnauthorized
	}

	err = fn(sess.AccessToken())
	if errors.Is(err, shared.ErrUnauthorized) {
		s.sessions.Destroy(sess)
	}
	return err
}

func (s *Service) refresh(ctx context.Context, sess *Session) error {
	if sess.RefreshToken() == "" {
		return shared.ErrUnauthorized
	}
	var out struct {
		Access string `json:"access"`
	}
	if err := s.api.Post(ctx, "", "/token/refresh/", map[string]string{"refresh": sess.RefreshToken()}, &out); err != nil {
		return err
	}
	if out.Access == "" {
		return errors.New("refresh returned empty access token")
	}
	sess.SetAccessToken(out.Access)
	return nil
}
