package jobs_test

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
	"github.com/stockroom/stockroom/jobs"
)

func TestDashboardWarmupPopulatesCache(t *testing.T) {
	statsHits := &atomic.Int64{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access":"acc","refresh":"ref"}`))
	})
	mux.HandleFunc("GET /users/me/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"username":"svc","is_superuser":true}`))
	})
	mux.HandleFunc("GET /dashboard/", func(w http.ResponseWriter, r *http.Request) {
		statsHits.Add(1)
		_, _ = w.Write([]byte(`{"total_customers":3,"total_products":12,"total_orders":7,"total_suppliers":2,"total_revenue":45.0,"low_stock_products":1,"recent_orders":[]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	api := upstream.NewClient(server.URL, 5*time.Second, nil)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := auth.NewSessionManager(rdb, "s", "secret", time.Hour, false)
	authSvc := auth.NewService(api, sessions, nil)
	cache := dashboard.NewCache(rdb, time.Minute)
	dashboardSvc := dashboard.NewService(api, authSvc, cache, nil)

	job := jobs.NewDashboardWarmupJob(authSvc, sessions, dashboardSvc, auth.Credentials{
		Username: "svc", Password: "pw",
	}, nil)

	task, err := jobs.NewDashboardWarmupTask(jobs.DashboardWarmupPayload{Reason: "cron"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, int64(1), statsHits.Load())

	// A later request finds the snapshot already cached.
	sess := sessions.NewSession()
	sess.SetTokens("acc", "ref")
	stats, err := dashboardSvc.Stats(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, 45.0, stats.TotalRevenue)
	assert.Equal(t, int64(1), statsHits.Load())
}

func TestDashboardWarmupSkipsWithoutServiceAccount(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := auth.NewSessionManager(rdb, "s", "secret", time.Hour, false)
	api := upstream.NewClient("http://127.0.0.1:0", time.Second, nil)
	authSvc := auth.NewService(api, sessions, nil)
	cache := dashboard.NewCache(rdb, time.Minute)
	dashboardSvc := dashboard.NewService(api, authSvc, cache, nil)

	job := jobs.NewDashboardWarmupJob(authSvc, sessions, dashboardSvc, auth.Credentials{}, nil)

	task, err := jobs.NewDashboardWarmupTask(jobs.DashboardWarmupPayload{Reason: "cron"})
	require.NoError(t, err)
	assert.NoError(t, job.Handle(context.Background(), task))
}
