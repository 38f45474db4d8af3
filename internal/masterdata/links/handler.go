package links

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/product-suppliers", h.List)
	r.Post("/product-suppliers", h.Create)
	r.Delete("/product-suppliers", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	list, err := h.service.List(r.Context(), sess)
	if err != nil {
		h.logger.Error("list links failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	sess := auth.SessionFromContext(r.Context())
	created, err := h.service.Create(r.Context(), sess, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// Delete removes the link named by the product and supplier query params,
// mirroring the backend's own delete contract.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, err1 := strconv.ParseInt(r.URL.Query().Get("product"), 10, 64)
	supplierID, err2 := strconv.ParseInt(r.URL.Query().Get("supplier"), 10, 64)
	if err1 != nil || err2 != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "product and supplier query params required")
		return
	}
	sess := auth.SessionFromContext(r.Context())
	if err := h.service.Delete(r.Context(), sess, productID, supplierID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
