package orders

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

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

// Service submits composed drafts and keeps the order list fresh.
type Service struct {
	api    *upstream.Client
	auth   *auth.Service
	store  *store.Store
	cache  CacheInvalidator
	logger *slog.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// NewService constructs the order service. cache may be nil.
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

// List refreshes and returns the order list.
func (s *Service) List(ctx context.Context, sess *auth.Session) ([]retail.Order, error) {
	if err := s.store.RefreshOrders(ctx, sess); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return s.store.Orders(), nil
}

// Submit validates the draft and sends the single creation request. The
// whole order either fully succeeds, yielding the canonical backend Order
// with its price snapshots and computed amount, or fully fails with one
// error set. A second submission for the same session while one is in
// flight is refused.
func (s *Service) Submit(ctx context.Context, sess *auth.Session, draft Draft) (*retail.Order, error) {
	if fe := draft.Validate(); fe.HasErrors() {
		return nil, fe
	}

	if !s.begin(sess.ID) {
		return nil, shared.ErrSubmitInFlight
	}
	defer s.end(sess.ID)

	var created retail.Order
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Post(ctx, token, "/orders/", requestFromDraft(draft), &created,
			upstream.WithIdempotencyKey(uuid.NewString()))
	})
	if err != nil {
		// FieldErrors pass through untouched so the caller can merge them
		// into the form's error map.
		return nil, err
	}

	// Full re-fetch, never a local patch. A failed refresh does not undo
	// the creation; the stale list is logged and retried by the next load.
	if err := s.store.RefreshOrders(ctx, sess); err != nil {
		s.logger.Warn("order list refresh after create", slog.Any("error", err))
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
