package middleware

import (
	"mysre-api/internal/logger"
	"mysre-api/internal/models"
	"mysre-api/internal/services"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// ActivityRecorder persists one usage-analytics row per authenticated
// request.
type ActivityRecorder struct {
	logService services.ActivityLogService
}

func NewActivityRecorder(logService services.ActivityLogService) *ActivityRecorder {
	return &ActivityRecorder{
		logService: logService,
	}
}

func (ar *ActivityRecorder) LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		user, ok := services.UserFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		summary := createRequestSummary(r)

		next.ServeHTTP(rw, r)

		status := models.StatusSuccess
		if rw.statusCode >= 400 {
			status = models.StatusError
		}

		err := ar.logService.LogRequest(
			user.ID.String(),
			r.URL.Path,
			r.Method,
			rw.statusCode,
			status,
			summary,
		)

		if err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"error": err,
				"user":  user.ID,
				"path":  r.URL.Path,
			}).Error("Failed to log request")
		}
	})
}

func createRequestSummary(r *http.Request) string {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api"), "/")
	summary := "API request"

	if len(parts) < 2 {
		return summary
	}

	switch parts[1] {
	case "articles":
		if search := r.URL.Query().Get("search"); search != "" {
			summary = "Article search: " + search
		} else {
			summary = "Article " + strings.ToLower(r.Method)
		}
	case "billing":
		if len(parts) > 2 {
			summary = "Billing " + parts[2]
		}
	case "writer":
		summary = "Writer session " + strings.ToLower(r.Method)
	}

	return summary
}
