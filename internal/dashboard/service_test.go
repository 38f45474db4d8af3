package dashboard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/dashboard"
	"github.com/stockroom/stockroom/internal/platform/upstream"
)

type fixture struct {
	service *dashboard.Service
	sess    *auth.Session
	hits    *atomic.Int64
	revenue *atomic.Value
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hits := &atomic.Int64{}
	revenue := &atomic.Value{}
	revenue.Store(`45.0`)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /dashboard/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body := `{"total_customers":3,"total_products":12,"total_orders":7,"total_suppliers":2,` +
			`"total_revenue":` + revenue.Load().(string) + `,"low_stock_products":1,` +
			`"recent_orders":[{"order_id":41,"customer_name":"Meera","amount":45.0}]}`
		_, _ = w.Write([]byte(body))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	api := upstream.NewClient(server.URL, 5*time.Second, nil)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := auth.NewSessionManager(rdb, "s", "secret", time.Hour, false)
	authSvc := auth.NewService(api, sm, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	sess.SetTokens("tok", "ref")

	cache := dashboard.NewCache(rdb, time.Minute)
	service := dashboard.NewService(api, authSvc, cache, nil)

	return &fixture{service: service, sess: sess, hits: hits, revenue: revenue}
}

func TestStatsServedFromCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stats, err := f.service.Stats(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalOrders)
	assert.Equal(t, 45.0, stats.TotalRevenue)
	require.Len(t, stats.RecentOrders, 1)
	assert.Equal(t, "Meera", stats.RecentOrders[0].CustomerName)

	f.revenue.Store(`90.0`)
	stats, err = f.service.Stats(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, 45.0, stats.TotalRevenue, "second read must come from cache")
	assert.Equal(t, int64(1), f.hits.Load())
}

func TestInvalidateForcesReload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Stats(ctx, f.sess)
	require.NoError(t, err)

	f.revenue.Store(`90.0`)
	require.NoError(t, f.service.Invalidate(ctx))

	stats, err := f.service.Stats(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, 90.0, stats.TotalRevenue)
	assert.Equal(t, int64(2), f.hits.Load())
}

func TestStatsUnauthenticated(t *testing.T) {
	f := newFixture(t)
	f.sess.SetTokens("", "")

	_, err := f.service.Stats(context.Background(), f.sess)
	assert.Error(t, err)
	assert.Equal(t, int64(0), f.hits.Load())
}
