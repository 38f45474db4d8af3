// Package dashboard serves the precomputed statistics snapshot. The
// backend does all aggregation; this side only caches, gates cards by
// role, and formats currency.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/platform/upstream"
	"github.com/stockroom/stockroom/internal/retail"
)

// Service fetches and caches the dashboard snapshot.
type Service struct {
	api    *upstream.Client
	auth   *auth.Service
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService constructs the dashboard service. cache may be nil, in which
// case every call goes upstream.
func NewService(api *upstream.Client, authSvc *auth.Service, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, auth: authSvc, cache: cache, logger: logger}
}

// Stats returns the snapshot, from cache when fresh. Concurrent misses
// collapse into one upstream call.
func (s *Service) Stats(ctx context.Context, sess *auth.Session) (*retail.DashboardStats, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", "stats")
	if err != nil {
		return nil, fmt.Errorf("dashboard cache key: %w", err)
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		var stats retail.DashboardStats
		err := s.cache.FetchJSON(ctx, key, &stats, func(ctx context.Context) (interface{}, error) {
			var fresh retail.DashboardStats
			if err := s.auth.Exec(ctx, sess, func(token string) error {
				return s.api.Get(ctx, token, "/dashboard/", &fresh)
			}); err != nil {
				return nil, err
			}
			return fresh, nil
		})
		if err != nil {
			return nil, err
		}
		return &stats, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*retail.DashboardStats), nil
}

// Invalidate bumps the cache version after a mutation elsewhere.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
