package routes

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/APPLEMALL-KENYA/agents/controllers"
	"github.com/APPLEMALL-KENYA/agents/controllers/auth"
	"github.com/APPLEMALL-KENYA/agents/middleware"
	"github.com/APPLEMALL-KENYA/agents/models"
)

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "applemall-agents-api",
	})
}

func InitRouter() *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint for Docker health checks (root level)
	r.Handle("/health", http.HandlerFunc(healthHandler)).Methods(http.MethodGet)

	// CORS - origins from CORS_ALLOWED_ORIGINS (comma-separated) or defaults
	origins := []string{
		"https://applemall.co.ke",
		"http://localhost:3000", "http://localhost:8080",
		"http://127.0.0.1:3000", "http://127.0.0.1:8080",
	}
	if originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS"); originsEnv != "" {
		for _, p := range strings.Split(originsEnv, ",") {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/api").Subrouter()

	// Catch-all OPTIONS handler for CORS preflight
	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	api.Handle("/health", http.HandlerFunc(healthHandler)).Methods(http.MethodGet)

	// Auth endpoints, rate limited per IP
	authLimiter := middleware.NewIPRateLimiter(50, time.Minute)
	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.Use(authLimiter.Middleware)
	authRouter.Handle("/register", http.HandlerFunc(auth.RegisterHandler)).Methods(http.MethodPost)
	authRouter.Handle("/login", http.HandlerFunc(auth.LoginHandler)).Methods(http.MethodPost)
	authRouter.Handle("/refresh", http.HandlerFunc(auth.RefreshHandler)).Methods(http.MethodPost)
	authRouter.Handle("/logout", http.HandlerFunc(auth.LogoutHandler)).Methods(http.MethodPost)

	// Public parcel tracking
	api.Handle("/parcels/track/{tracking_number}", http.HandlerFunc(controllers.TrackParcelHandler)).Methods(http.MethodGet)

	// Authenticated parcel endpoints
	api.Handle("/parcels", middleware.AuthMiddleware(
		middleware.RequireRoles(models.RoleSuperadmin, models.RoleAgent, models.RoleSubagent)(
			http.HandlerFunc(controllers.CreateParcelHandler)))).Methods(http.MethodPost)
	api.Handle("/parcels", middleware.AuthMiddleware(http.HandlerFunc(controllers.ListParcelsHandler))).Methods(http.MethodGet)
	api.Handle("/parcels/{id:[0-9]+}/status", middleware.AuthMiddleware(
		middleware.RequireRoles(models.RoleSuperadmin, models.RoleAgent, models.RoleSubagent)(
			http.HandlerFunc(controllers.UpdateParcelStatusHandler)))).Methods(http.MethodPatch)

	// Per-role dashboard summary
	api.Handle("/dashboard", middleware.AuthMiddleware(http.HandlerFunc(controllers.DashboardHandler))).Methods(http.MethodGet)

	// Notifications
	api.Handle("/notifications", middleware.AuthMiddleware(http.HandlerFunc(controllers.ListNotificationsHandler))).Methods(http.MethodGet)
	api.Handle("/notifications/{id:[0-9]+}/read", middleware.AuthMiddleware(http.HandlerFunc(controllers.MarkNotificationReadHandler))).Methods(http.MethodPost)

	AgentRoutes(api)
	RiderRoutes(api)
	AdminRoutes(api)

	return r
}
