package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	agentsctl "github.com/APPLEMALL-KENYA/agents/controllers/agents"
	"github.com/APPLEMALL-KENYA/agents/middleware"
	"github.com/APPLEMALL-KENYA/agents/models"
)

// AgentRoutes mounts the agent wallet, earnings and withdrawal endpoints.
func AgentRoutes(api *mux.Router) {
	agentOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(
			middleware.RequireRoles(models.RoleAgent, models.RoleSubagent)(h))
	}

	sub := api.PathPrefix("/agents").Subrouter()
	sub.Handle("/wallet", agentOnly(agentsctl.BalanceHandler)).Methods(http.MethodGet)
	sub.Handle("/wallet/transactions", agentOnly(agentsctl.LedgerHandler)).Methods(http.MethodGet)
	sub.Handle("/earnings", agentOnly(agentsctl.ListEarningsHandler)).Methods(http.MethodGet)
	sub.Handle("/commissions", agentOnly(agentsctl.ListCommissionsHandler)).Methods(http.MethodGet)
	sub.Handle("/team", agentOnly(agentsctl.ListTeamHandler)).Methods(http.MethodGet)
	sub.Handle("/withdrawals", agentOnly(agentsctl.RequestWithdrawalHandler)).Methods(http.MethodPost)
	sub.Handle("/withdrawals", agentOnly(agentsctl.ListWithdrawalsHandler)).Methods(http.MethodGet)
}
