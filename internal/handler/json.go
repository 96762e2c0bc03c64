package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/usergraph/internal/domain"
)

const maxBodyBytes = 1 << 20

// CodeTooManyRequests is returned when the login limiter rejects a request.
const CodeTooManyRequests = "TOO_MANY_REQUESTS"

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response with a stable code.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// writeDomainError maps err onto its code and HTTP status. Errors outside the
// domain taxonomy are reported as an opaque internal error.
func writeDomainError(w http.ResponseWriter, err error) {
	code := domain.Code(err)
	message := err.Error()
	if code == domain.CodeInternal {
		if !errors.Is(err, domain.ErrInternal) {
			slog.Error("unhandled error", "error", err)
		}
		message = domain.ErrInternal.Error()
	}
	writeError(w, statusFor(code), code, message)
}

func statusFor(code string) int {
	switch code {
	case domain.CodeUsernameTaken, domain.CodeAlreadyFollowing, domain.CodeNotFollowing:
		return http.StatusConflict
	case domain.CodeUserNotFound, domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidPassword, domain.CodeUnauthenticated, domain.CodeTokenInvalid, domain.CodeTokenExpired:
		return http.StatusUnauthorized
	case domain.CodeSelfFollowForbidden, domain.CodeBadUserInput:
		return http.StatusBadRequest
	case domain.CodeAvatarStorageDisabled:
		return http.StatusNotImplemented
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// readJSON decodes the request body into the given destination.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeBadBody(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, domain.CodeBadUserInput, "Invalid request body.")
}
