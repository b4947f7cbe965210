package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apperrors "mysre-api/internal/pkg/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the service error taxonomy onto HTTP codes at the
// boundary: validation and business-rule violations are 400, missing
// entities 404, everything else is a 500 with the raw message passed
// through.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidTier),
		errors.Is(err, apperrors.ErrInsufficientBalance),
		errors.Is(err, apperrors.ErrLastAdmin),
		errors.Is(err, apperrors.ErrAlreadyExists):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

// ParsePaginationParams reads page/limit query params with sane defaults.
func ParsePaginationParams(r *http.Request) (page, limit int) {
	page = 1
	limit = 10

	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	return page, limit
}
