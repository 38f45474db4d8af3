package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/platform/httpx"
	"github.com/stockroom/stockroom/internal/retail"
)

// Handler exposes the dashboard endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the dashboard handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches the dashboard endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.Stats)
}

type statsResponse struct {
	Stats            *retail.DashboardStats `json:"stats"`
	Cards            []Card                 `json:"cards"`
	FormattedRevenue string                 `json:"formatted_revenue"`
}

// Stats serves the snapshot with the card set for the caller's roles and
// the revenue preformatted for display.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	stats, err := h.service.Stats(r.Context(), sess)
	if err != nil {
		h.logger.Error("dashboard load failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, statsResponse{
		Stats:            stats,
		Cards:            VisibleCards(sess.Roles()),
		FormattedRevenue: FormatAmount(stats.TotalRevenue),
	})
}
