package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	adminsctl "github.com/APPLEMALL-KENYA/agents/controllers/admins"
	"github.com/APPLEMALL-KENYA/agents/middleware"
)

// AdminRoutes mounts the superadmin endpoints. Every route passes both the
// token check and the DB-backed superadmin check.
func AdminRoutes(api *mux.Router) {
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminAuthMiddleware(h))
	}

	sub := api.PathPrefix("/admin").Subrouter()
	sub.Handle("/dashboard", adminOnly(adminsctl.DashboardHandler)).Methods(http.MethodGet)

	sub.Handle("/commission-rules", adminOnly(adminsctl.ListCommissionRulesHandler)).Methods(http.MethodGet)
	sub.Handle("/commission-rules", adminOnly(adminsctl.UpsertCommissionRuleHandler)).Methods(http.MethodPost)
	sub.Handle("/commission-rules/{id:[0-9]+}", adminOnly(adminsctl.DeleteCommissionRuleHandler)).Methods(http.MethodDelete)

	sub.Handle("/categories", adminOnly(adminsctl.ListCategoriesHandler)).Methods(http.MethodGet)
	sub.Handle("/categories", adminOnly(adminsctl.CreateCategoryHandler)).Methods(http.MethodPost)

	sub.Handle("/withdrawals", adminOnly(adminsctl.ListWithdrawalsHandler)).Methods(http.MethodGet)
	sub.Handle("/withdrawals/force", adminOnly(adminsctl.ForceWithdrawHandler)).Methods(http.MethodPost)

	sub.Handle("/users", adminOnly(adminsctl.ListUsersHandler)).Methods(http.MethodGet)
	sub.Handle("/users/{id:[0-9]+}/status", adminOnly(adminsctl.UpdateUserStatusHandler)).Methods(http.MethodPatch)

	sub.Handle("/riders", adminOnly(adminsctl.ListRidersHandler)).Methods(http.MethodGet)
	sub.Handle("/riders/{id:[0-9]+}/status", adminOnly(adminsctl.UpdateRiderStatusHandler)).Methods(http.MethodPatch)
}
