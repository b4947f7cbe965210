package handlers

import (
	"math"
	"net/http"
	"time"

	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/services"

	"github.com/gorilla/mux"
)

type ActivityHandler struct {
	activityService services.ActivityLogService
}

func NewActivityHandler(activityService services.ActivityLogService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ListActivity - paginated usage-analytics stream (admin only)
func (h *ActivityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	page, limit := ParsePaginationParams(r)

	logs, total, err := h.activityService.ListActivity(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs":       logs,
		"total":      total,
		"page":       page,
		"totalPages": int(math.Ceil(float64(total) / float64(limit))),
	})
}

// GetUserActivity - one user's request history over a date window
// (from/to as YYYY-MM-DD, defaulting to the last 30 days)
func (h *ActivityHandler) GetUserActivity(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, errors.ErrInvalidInput)
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, errors.ErrInvalidInput)
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	logs, err := h.activityService.GetUserLogs(userID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": logs})
}
