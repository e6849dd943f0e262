package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/akarpov87/budget-keeper/internal/errs"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps classified service errors to status codes. Unclassified
// errors are reported as a bare 500; the cause is logged, not leaked.
func writeError(log *zap.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrDuplicateIdentity):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrAccountLocked):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "account is locked, try again later"})
	case errors.Is(err, errs.ErrUnauthenticated),
		errors.Is(err, errs.ErrTokenExpired),
		errors.Is(err, errs.ErrTokenMalformed),
		errors.Is(err, errs.ErrTokenRevoked):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrDecrypt):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		log.Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
