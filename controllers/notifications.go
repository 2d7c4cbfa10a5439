package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/notifications"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

// GET /api/notifications
func ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	query := db.Model(&models.Notification{}).Where("user_id = ?", uid)
	if r.URL.Query().Get("unread") == "true" {
		query = query.Where("`read` = ?", false)
	}

	var rows []models.Notification
	if err := query.Order("id DESC").Limit(100).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve notifications"})
		return
	}

	var unread int64
	db.Model(&models.Notification{}).Where("user_id = ? AND `read` = ?", uid, false).Count(&unread)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data":         rows,
			"unread_count": unread,
		},
	})
}

// POST /api/notifications/{id}/read
func MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid notification id"})
		return
	}

	if err := notifications.MarkRead(database.DB, uid, uint(id)); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to mark notification"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Notification marked as read"})
}
