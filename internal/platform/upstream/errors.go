package upstream

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stockroom/stockroom/internal/shared"
)

// StatusError is a non-validation failure from the backend: server errors,
// unexpected statuses, unparseable bodies.
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: %s %s: status %d", e.Method, e.Path, e.Status)
}

// errorFromResponse normalises backend failures:
//   - 401/403 become shared.ErrUnauthorized so the session layer can tear
//     the session down,
//   - 404 becomes shared.ErrNotFound,
//   - 400-class bodies shaped as {"field": "msg"} or {"field": ["msg"]}
//     become shared.FieldErrors, first message per field,
//   - everything else becomes a StatusError.
func (c *Client) errorFromResponse(method, path string, status int, raw []byte) error {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("upstream: %s %s: %w", method, path, shared.ErrUnauthorized)
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("upstream: %s %s: %w", method, path, shared.ErrNotFound)
	}
	if status >= 400 && status < 500 {
		if fe := decodeFieldErrors(raw); fe.HasErrors() {
			return fe
		}
	}
	return &StatusError{Method: method, Path: path, Status: status}
}

// decodeFieldErrors extracts field-level messages from a backend error
// body. Values may be a plain string or an array of strings; only the
// first message per field is kept.
func decodeFieldErrors(raw []byte) shared.FieldErrors {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}

	fe := shared.FieldErrors{}
	for field, value := range body {
		var msg string
		if err := json.Unmarshal(value, &msg); err == nil {
			fe.Add(shared.FieldKey(field), msg)
			continue
		}
		var msgs []string
		if err := json.Unmarshal(value, &msgs); err == nil && len(msgs) > 0 {
			fe.Add(shared.FieldKey(field), msgs[0])
		}
	}
	return fe
}
