package orders

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/platform/httpx"
	"github.com/stockroom/stockroom/internal/store"
)

// Handler exposes the order endpoints of the gateway.
type Handler struct {
	logger  *slog.Logger
	service *Service
	store   *store.Store
}

// NewHandler constructs the order handler.
func NewHandler(logger *slog.Logger, service *Service, entityStore *store.Store) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, store: entityStore}
}

// MountRoutes attaches the order endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/orders", h.List)
	r.Post("/orders", h.Create)
	r.Post("/orders/preview", h.Preview)
}

// List returns the refreshed order list.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	list, err := h.service.List(r.Context(), sess)
	if err != nil {
		h.logger.Error("list orders failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// Create submits a composed draft. A validation failure, local or
// upstream, answers with the unified field-error map and leaves the form
// open; success returns the canonical backend order.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var draft Draft
	if err := httpx.DecodeJSON(r, &draft); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	sess := auth.SessionFromContext(r.Context())
	created, err := h.service.Submit(r.Context(), sess, draft)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// Preview reports the locally computed total for a draft, resolved against
// the cached product prices. Display-only; the backend amount is
// authoritative.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var draft Draft
	if err := httpx.DecodeJSON(r, &draft); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]float64{"total": draft.Total(h.store)})
}
