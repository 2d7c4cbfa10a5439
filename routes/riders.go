package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	ridersctl "github.com/APPLEMALL-KENYA/agents/controllers/riders"
	"github.com/APPLEMALL-KENYA/agents/middleware"
	"github.com/APPLEMALL-KENYA/agents/models"
)

// RiderRoutes mounts the rider job and payout endpoints.
func RiderRoutes(api *mux.Router) {
	riderOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(
			middleware.RequireRoles(models.RoleRider)(h))
	}

	sub := api.PathPrefix("/riders").Subrouter()
	sub.Handle("/profile", riderOnly(ridersctl.RegisterProfileHandler)).Methods(http.MethodPost)
	sub.Handle("/jobs/available", riderOnly(ridersctl.ListAvailableJobsHandler)).Methods(http.MethodGet)
	sub.Handle("/jobs/{id:[0-9]+}/accept", riderOnly(ridersctl.AcceptJobHandler)).Methods(http.MethodPost)
	sub.Handle("/jobs/{id:[0-9]+}/status", riderOnly(ridersctl.UpdateJobStatusHandler)).Methods(http.MethodPatch)
	sub.Handle("/withdraw", riderOnly(ridersctl.WithdrawHandler)).Methods(http.MethodPost)

	// Ratings come from customers and agents, not riders.
	api.Handle("/riders/jobs/{id:[0-9]+}/rate", middleware.AuthMiddleware(
		middleware.RequireRoles(models.RoleCustomer, models.RoleAgent, models.RoleSubagent, models.RoleSuperadmin)(
			http.HandlerFunc(ridersctl.RateRiderHandler)))).Methods(http.MethodPost)
}
