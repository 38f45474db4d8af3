package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/dashboard"
)

// DashboardWarmupJob logs in with a service account and loads the
// dashboard snapshot, leaving it in the shared Redis cache for the
// gateway processes.
type DashboardWarmupJob struct {
	Auth      *auth.Service
	Sessions  *auth.SessionManager
	Dashboard *dashboard.Service
	Creds     auth.Credentials
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(authSvc *auth.Service, sessions *auth.SessionManager, dashboardSvc *dashboard.Service, creds auth.Credentials, logger *slog.Logger) *DashboardWarmupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardWarmupJob{
		Auth:      authSvc,
		Sessions:  sessions,
		Dashboard: dashboardSvc,
		Creds:     creds,
		Logger:    logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Auth == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if j.Creds.Username == "" {
		j.Logger.Info("no service account configured, skipping warmup")
		return nil
	}

	start := j.clock()
	logger := j.Logger.With(slog.String("reason", payload.Reason))

	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	sess := j.Sessions.NewSession()
	if _, err := j.Auth.Login(runCtx, sess, j.Creds); err != nil {
		logger.Error("service account login failed", slog.Any("error", err))
		return err
	}

	stats, err := j.Dashboard.Stats(runCtx, sess)
	if err != nil {
		logger.Error("dashboard warmup failed", slog.Any("error", err))
		return err
	}

	logger.Info("dashboard warmup completed",
		slog.Int("total_orders", stats.TotalOrders),
		slog.Duration("duration", j.clock().Sub(start)))
	return nil
}

// HandleInvalidate processes dashboard invalidation tasks.
func (j *DashboardWarmupJob) HandleInvalidate(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard invalidate: handler not configured")
	}
	if err := j.Dashboard.Invalidate(ctx); err != nil {
		j.Logger.Error("dashboard invalidate failed", slog.Any("error", err))
		return err
	}
	j.Logger.Info("dashboard cache invalidated")
	return nil
}
