package httpx

import (
	"errors"
	"net/http"

	"github.com/stockroom/stockroom/internal/platform/upstream"
	"github.com/stockroom/stockroom/internal/shared"
)

// RespondError maps domain and upstream errors to HTTP responses.
func RespondError(w http.ResponseWriter, err error) {
	var fe shared.FieldErrors
	if errors.As(err, &fe) {
		ValidationProblem(w, fe)
		return
	}

	var statusErr *upstream.StatusError
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Invalid Credentials", err.Error())
	case errors.Is(err, shared.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "session expired, sign in again")
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrSubmitInFlight):
		Problem(w, http.StatusConflict, "Submission In Flight", err.Error())
	case errors.As(err, &statusErr):
		Problem(w, http.StatusBadGateway, "Upstream Error", statusErr.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
