package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionManager orchestrates cookie based sessions backed by Redis. The
// session is the only place the upstream tokens live; there is no ambient
// global credential.
type SessionManager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
	secret     []byte
}

// Session holds the authenticated state for one browser: the upstream
// token pair and the identity resolved at login.
type Session struct {
	ID        string
	access    string
	refresh   string
	userID    int64
	username  string
	roles     []Role
	isNew     bool
	dirty     bool
	destroyed bool
}

type sessionPayload struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Roles    []Role `json:"roles"`
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, cookieName, secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		client:     client,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		secret:     []byte(secret),
	}
}

// Load loads the session referenced by the request cookie, or creates a
// fresh anonymous one.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return sm.newSession(), nil
		}
		return nil, err
	}

	payload, err := sm.client.Get(ctx, sm.redisKey(cookie.Value)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			sess := sm.newSession()
			sess.ID = cookie.Value
			return sess, nil
		}
		return nil, err
	}

	var stored sessionPayload
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, err
	}

	sess := &Session{
		ID:       cookie.Value,
		access:   stored.Access,
		refresh:  stored.Refresh,
		userID:   stored.UserID,
		username: stored.Username,
		roles:    stored.Roles,
	}
	return sess, nil
}

// Commit persists the session and writes cookie headers as needed.
func (sm *SessionManager) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return nil
	}

	if sess.destroyed {
		if err := sm.client.Del(ctx, sm.redisKey(sess.ID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sm.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   sm.secure,
			SameSite: http.SameSiteStrictMode,
		})
		return nil
	}

	if sess.isNew && sess.ID == "" {
		sess.ID = sm.generateSessionID()
	}

	if sess.dirty || sess.isNew {
		payload := sessionPayload{
			Access:   sess.access,
			Refresh:  sess.refresh,
			UserID:   sess.userID,
			Username: sess.username,
			Roles:    sess.roles,
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		if err := sm.client.Set(ctx, sm.redisKey(sess.ID), data, sm.ttl).Err(); err != nil {
			return err
		}
		sess.dirty = false
	}

	if sess.ID != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     sm.cookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   sm.secure,
			SameSite: http.SameSiteStrictMode,
			Expires:  time.Now().Add(sm.ttl),
		})
	}

	return nil
}

// Destroy marks the session for deletion on the next Commit.
func (sm *SessionManager) Destroy(sess *Session) {
	if sess == nil {
		return
	}
	sess.destroyed = true
}

// TTL exposes the configured session lifetime.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// CookieName returns the cookie identifier used for sessions.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

// SetTokens stores the upstream token pair.
func (s *Session) SetTokens(access, refresh string) {
	s.access = access
	s.refresh = refresh
	s.dirty = true
}

// SetAccessToken replaces only the access token, after a refresh.
func (s *Session) SetAccessToken(access string) {
	s.access = access
	s.dirty = true
}

// AccessToken returns the current upstream access token.
func (s *Session) AccessToken() string {
	return s.access
}

// RefreshToken returns the stored refresh token.
func (s *Session) RefreshToken() string {
	return s.refresh
}

// SetIdentity records who the session belongs to.
func (s *Session) SetIdentity(user User) {
	s.userID = user.ID
	s.username = user.Username
	s.roles = user.EffectiveRoles()
	s.dirty = true
}

// UserID returns the authenticated user's id, zero when anonymous.
func (s *Session) UserID() int64 {
	return s.userID
}

// Username returns the authenticated username.
func (s *Session) Username() string {
	return s.username
}

// Roles returns the roles resolved at login.
func (s *Session) Roles() []Role {
	return s.roles
}

// HasRole reports whether the session carries the given role.
func (s *Session) HasRole(role Role) bool {
	for _, r := range s.roles {
		if r == role {
			return true
		}
	}
	return false
}

// Authenticated reports whether an upstream token is present.
func (s *Session) Authenticated() bool {
	return s != nil && s.access != "" && !s.destroyed
}

// NewSession returns a fresh anonymous session. Background jobs use this
// to authenticate with a service account outside any HTTP request.
func (sm *SessionManager) NewSession() *Session {
	return sm.newSession()
}

func (sm *SessionManager) newSession() *Session {
	return &Session{
		ID:    sm.generateSessionID(),
		isNew: true,
		dirty: true,
	}
}

func (sm *SessionManager) redisKey(id string) string {
	return "session:" + id
}

func (sm *SessionManager) generateSessionID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	if len(sm.secret) > 0 {
		for i := range b {
			b[i] ^= sm.secret[i%len(sm.secret)]
		}
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
