package payments

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/platform/upstream"
	"github.com/stockroom/stockroom/internal/retail"
	"github.com/stockroom/stockroom/internal/shared"
	"github.com/stockroom/stockroom/internal/store"
)

// CacheInvalidator bumps derived caches after a mutation.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// Service submits payment forms and keeps the payment list fresh.
type Service struct {
	api    *upstream.Client
	auth   *auth.Service
	store  *store.Store
	cache  CacheInvalidator
	logger *slog.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// NewService constructs the payment service. cache may be nil.
func NewService(api *upstream.Client, authSvc *auth.Service, entityStore *store.Store, cache CacheInvalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		api:      api,
		auth:     authSvc,
		store:    entityStore,
		cache:    cache,
		logger:   logger,
		inflight: make(map[string]bool),
	}
}

// List refreshes and returns the payment list.
func (s *Service) List(ctx context.Context, sess *auth.Session) ([]retail.Payment, error) {
	if err := s.store.RefreshPayments(ctx, sess); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return s.store.Payments(), nil
}

// Submit validates the form and creates the payment. Duplicate clicks
// while a submission is in flight are refused; on success the payment
// list is fully re-fetched.
func (s *Service) Submit(ctx context.Context, sess *auth.Session, form Form) (*retail.Payment, error) {
	if fe := form.Validate(); fe.HasErrors() {
		return nil, fe
	}

	if !s.begin(sess.ID) {
		return nil, shared.ErrSubmitInFlight
	}
	defer s.end(sess.ID)

	var created retail.Payment
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Post(ctx, token, "/payments/", form, &created)
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.RefreshPayments(ctx, sess); err != nil {
		s.logger.Warn("payment list refresh after create", slog.Any("error", err))
	}
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("dashboard cache bump", slog.Any("error", err))
		}
	}
	return &created, nil
}

func (s *Service) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[sessionID] {
		return false
	}
	s.inflight[sessionID] = true
	return true
}

func (s *Service) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}
