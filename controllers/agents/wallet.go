package agents

import (
	"math"
	"net/http"
	"strconv"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/earnings"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

// GET /api/agents/wallet
func BalanceHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	balance, err := earnings.Balance(database.DB, uid)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve balance"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"balance":  balance.StringFixed(2),
			"currency": "KES",
		},
	})
}

// GET /api/agents/wallet/transactions
func LedgerHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit := pagination(r)
	db := database.DB

	query := db.Model(&models.WalletTransaction{}).Where("owner_id = ?", uid)
	if flow := r.URL.Query().Get("flow"); flow == models.FlowCredit || flow == models.FlowDebit {
		query = query.Where("flow = ?", flow)
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve transactions"})
		return
	}

	var entries []models.WalletTransaction
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&entries).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve transactions"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data":       entries,
			"pagination": paginationMeta(page, limit, totalRows),
		},
	})
}

func pagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func paginationMeta(page, limit int, totalRows int64) map[string]interface{} {
	return map[string]interface{}{
		"page":        page,
		"limit":       limit,
		"total_rows":  totalRows,
		"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
	}
}
