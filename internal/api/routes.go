package api

import (
	"net/http"

	"mysre-api/internal/api/handlers"
	"mysre-api/internal/middleware"
	"mysre-api/internal/services"

	"github.com/gorilla/mux"
)

type RouterDeps struct {
	AuthHandler      *handlers.AuthHandler
	BillingHandler   *handlers.BillingHandler
	ArticleHandler   *handlers.ArticleHandler
	UserHandler      *handlers.UserHandler
	WriterHandler    *handlers.WriterHandler
	UploadHandler    *handlers.UploadHandler
	ActivityHandler  *handlers.ActivityHandler
	SvcTokenHandler  *handlers.ServiceTokenHandler
	AuthService      services.AuthService
	SvcTokenService  services.ServiceTokenService
	ActivityRecorder *middleware.ActivityRecorder
	RateLimiter      *middleware.RateLimiter
}

func SetupRoutes(deps RouterDeps) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.LoggingMiddleware)

	// Public routes
	router.HandleFunc("/api/auth/register", deps.AuthHandler.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", deps.AuthHandler.Login).Methods("POST")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Authenticated routes
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(middleware.AuthMiddleware(deps.AuthService))
	apiRouter.Use(deps.RateLimiter.RateLimit)
	apiRouter.Use(deps.ActivityRecorder.LogRequest)

	// Billing
	apiRouter.HandleFunc("/billing/token-usage", deps.BillingHandler.GetTokenUsage).Methods("GET")
	apiRouter.HandleFunc("/billing/token-usage", deps.BillingHandler.RecordTokenUsage).Methods("POST")
	apiRouter.HandleFunc("/billing/top-up", deps.BillingHandler.TopUp).Methods("POST")

	// Articles
	apiRouter.HandleFunc("/articles", deps.ArticleHandler.ListArticles).Methods("GET")
	apiRouter.HandleFunc("/articles", deps.ArticleHandler.CreateArticle).Methods("POST")
	apiRouter.HandleFunc("/articles/{id}", deps.ArticleHandler.GetArticle).Methods("GET")
	apiRouter.HandleFunc("/articles/{id}", deps.ArticleHandler.UpdateArticle).Methods("PUT")
	apiRouter.HandleFunc("/articles/{id}", deps.ArticleHandler.DeleteArticle).Methods("DELETE")

	// Writer drafts
	apiRouter.HandleFunc("/writer/sessions", deps.WriterHandler.ListSessions).Methods("GET")
	apiRouter.HandleFunc("/writer/sessions", deps.WriterHandler.CreateSession).Methods("POST")
	apiRouter.HandleFunc("/writer/sessions/{id}", deps.WriterHandler.GetSession).Methods("GET")
	apiRouter.HandleFunc("/writer/sessions/{id}", deps.WriterHandler.UpdateSession).Methods("PUT")
	apiRouter.HandleFunc("/writer/sessions/{id}", deps.WriterHandler.DeleteSession).Methods("DELETE")

	// Uploads
	apiRouter.HandleFunc("/upload", deps.UploadHandler.Upload).Methods("POST")
	apiRouter.HandleFunc("/documents/{key:.*}", deps.UploadHandler.Download).Methods("GET")

	// Admin routes
	adminRouter := router.PathPrefix("/api").Subrouter()
	adminRouter.Use(middleware.AdminMiddleware(deps.AuthService))

	adminRouter.HandleFunc("/billing/stats", deps.BillingHandler.GetBillingStats).Methods("GET")
	adminRouter.HandleFunc("/billing/users", deps.BillingHandler.GetAllUsersBilling).Methods("GET")
	adminRouter.HandleFunc("/users", deps.UserHandler.ListUsers).Methods("GET")
	adminRouter.HandleFunc("/users", deps.UserHandler.CreateUser).Methods("POST")
	adminRouter.HandleFunc("/users/{id}", deps.UserHandler.GetUser).Methods("GET")
	adminRouter.HandleFunc("/users/{id}", deps.UserHandler.UpdateUser).Methods("PUT")
	adminRouter.HandleFunc("/users/{id}", deps.UserHandler.DeleteUser).Methods("DELETE")
	adminRouter.HandleFunc("/analytics/activity", deps.ActivityHandler.ListActivity).Methods("GET")
	adminRouter.HandleFunc("/analytics/activity/users/{id}", deps.ActivityHandler.GetUserActivity).Methods("GET")
	adminRouter.HandleFunc("/service-tokens", deps.SvcTokenHandler.IssueToken).Methods("POST")

	// External collaborator routes (billing-cycle job)
	serviceRouter := router.PathPrefix("/api").Subrouter()
	serviceRouter.Use(middleware.ServiceTokenMiddleware(deps.SvcTokenService))

	serviceRouter.HandleFunc("/billing/reset", deps.BillingHandler.ResetBalance).Methods("POST")
	serviceRouter.HandleFunc("/billing/settle", deps.BillingHandler.Settle).Methods("POST")
	serviceRouter.HandleFunc("/billing/payment-status", deps.BillingHandler.UpdatePaymentStatus).Methods("POST")

	return router
}
