package middleware

import (
	"mysre-api/internal/services"
	"net/http"
)

// ServiceTokenMiddleware guards endpoints reserved for external machine
// collaborators, such as the billing-cycle job.
func ServiceTokenMiddleware(tokenService services.ServiceTokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Service-Token")
			if !tokenService.VerifyToken(token) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
