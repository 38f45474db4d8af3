package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stockroom/stockroom/internal/platform/httpx"
	"github.com/stockroom/stockroom/internal/shared"
)

// Handler exposes the session endpoints of the gateway.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the auth handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes attaches the auth endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)
}

// Login authenticates against the upstream token endpoint and initialises
// the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := httpx.DecodeJSON(r, &creds); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(creds); err != nil {
		fe := shared.FieldErrors{}
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			for _, ve := range verr {
				field := strings.ToLower(ve.Field())
				fe.Add(shared.FieldKey(field), field+" is required")
			}
		}
		httpx.ValidationProblem(w, fe)
		return
	}

	sess := SessionFromContext(r.Context())
	user, err := h.service.Login(r.Context(), sess, creds)
	if err != nil {
		h.logger.Info("login failed", slog.String("username", creds.Username), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"roles":    user.EffectiveRoles(),
	})
}

// Logout destroys the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	h.service.Logout(sess)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me reports the current session identity.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if !sess.Authenticated() {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "not signed in")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":       sess.UserID(),
		"username": sess.Username(),
		"roles":    sess.Roles(),
	})
}
