package controllers

import (
	"net/http"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/earnings"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

// GET /api/dashboard
//
// Role-shaped summary for the authenticated user. Superadmins use the richer
// /api/admin/dashboard instead.
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	role := utils.GetUserRole(r)

	data := map[string]interface{}{"role": role}

	var unread int64
	db.Model(&models.Notification{}).Where("user_id = ? AND `read` = ?", uid, false).Count(&unread)
	data["unread_notifications"] = unread

	switch role {
	case models.RoleAgent, models.RoleSubagent:
		balance, _ := earnings.Balance(db, uid)
		data["balance"] = balance.StringFixed(2)

		var recentEarnings []models.DeliveryEarning
		db.Where("agent_id = ?", uid).Order("id DESC").Limit(5).Find(&recentEarnings)
		data["recent_earnings"] = recentEarnings

		var bonuses []models.SubAgentCommission
		db.Where("parent_agent_id = ?", uid).Order("id DESC").Limit(5).Find(&bonuses)
		data["recent_bonuses"] = bonuses

		var pendingParcels int64
		db.Model(&models.Parcel{}).
			Where("assigned_agent_id = ? AND status IN ?", uid, []string{models.ParcelCreated, models.ParcelInTransit}).
			Count(&pendingParcels)
		data["pending_parcels"] = pendingParcels

	case models.RoleRider:
		balance, _ := earnings.Balance(db, uid)
		data["balance"] = balance.StringFixed(2)

		var profile models.RiderProfile
		if err := db.Where("user_id = ?", uid).First(&profile).Error; err == nil {
			data["profile"] = profile
			var ongoing []models.Job
			db.Where("rider_id = ? AND status <> ?", profile.ID, models.JobDelivered).
				Order("id DESC").Find(&ongoing)
			data["ongoing_jobs"] = ongoing
		}

	case models.RoleCustomer:
		counts := map[string]int64{}
		for _, status := range []string{models.ParcelCreated, models.ParcelInTransit, models.ParcelDelivered, models.ParcelReturned, models.ParcelCancelled} {
			var n int64
			db.Model(&models.Parcel{}).Where("customer_id = ? AND status = ?", uid, status).Count(&n)
			counts[status] = n
		}
		data["parcels_by_status"] = counts
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: data})
}
