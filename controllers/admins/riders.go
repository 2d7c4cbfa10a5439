package admins

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/middleware"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/notifications"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

// GET /api/admin/riders
func ListRidersHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB
	query := db.Model(&models.RiderProfile{}).Preload("User")
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var riders []models.RiderProfile
	if err := query.Order("id DESC").Limit(200).Find(&riders).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve riders"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: riders})
}

type UpdateRiderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUSPENDED PROBATION"`
}

// PATCH /api/admin/riders/{id}/status
func UpdateRiderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid rider id"})
		return
	}

	var req UpdateRiderStatusRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB
	var profile models.RiderProfile
	if err := db.First(&profile, uint(id)).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Rider not found"})
		return
	}

	if err := db.Model(&profile).Update("status", req.Status).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update rider"})
		return
	}
	profile.Status = req.Status

	switch req.Status {
	case models.RiderSuspended:
		notifications.Notify(db, profile.UserID, "Account suspended",
			"Your rider account has been suspended. Contact support for details.", nil)
	case models.RiderActive:
		notifications.Notify(db, profile.UserID, "Account reinstated",
			"Your rider account is active again.", nil)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Rider updated", Data: profile})
}
