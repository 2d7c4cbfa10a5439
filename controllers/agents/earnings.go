package agents

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

// GET /api/agents/earnings
func ListEarningsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit := pagination(r)
	db := database.DB

	query := db.Model(&models.DeliveryEarning{}).Where("agent_id = ?", uid)
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve earnings"})
		return
	}

	var rows []models.DeliveryEarning
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve earnings"})
		return
	}

	var totalEarned decimal.Decimal
	db.Model(&models.DeliveryEarning{}).Where("agent_id = ?", uid).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&totalEarned)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data":         rows,
			"total_earned": totalEarned.StringFixed(2),
			"pagination":   paginationMeta(page, limit, totalRows),
		},
	})
}

// GET /api/agents/commissions
//
// Override bonuses earned from sub-agent deliveries. Only agents with
// sub-agents will have rows here.
func ListCommissionsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit := pagination(r)
	db := database.DB

	var totalRows int64
	if err := db.Model(&models.SubAgentCommission{}).Where("parent_agent_id = ?", uid).Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve commissions"})
		return
	}

	var rows []models.SubAgentCommission
	if err := db.Where("parent_agent_id = ?", uid).
		Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve commissions"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data":       rows,
			"pagination": paginationMeta(page, limit, totalRows),
		},
	})
}

// GET /api/agents/team
//
// Lists the sub-agents reporting to the authenticated agent.
func ListTeamHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var team []models.User
	if err := database.DB.
		Select("id, name, email, phone, role, location, status").
		Where("parent_id = ?", uid).Order("id").Find(&team).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve team"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: team})
}
