package admins

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/earnings"
	"github.com/APPLEMALL-KENYA/agents/middleware"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

// GET /api/admin/withdrawals
func ListWithdrawalsHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}

	db := database.DB
	query := db.Model(&models.WithdrawalRequest{})
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if agentID, _ := strconv.Atoi(r.URL.Query().Get("agent_id")); agentID > 0 {
		query = query.Where("agent_id = ?", agentID)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawals"})
		return
	}

	var rows []models.WithdrawalRequest
	if err := query.Preload("Agent").Order("id DESC").
		Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawals"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": rows,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}

type ForceWithdrawRequest struct {
	AgentID    uint   `json:"agent_id" validate:"required"`
	Amount     string `json:"amount" validate:"required"`
	RedeemType string `json:"redeem_type" validate:"omitempty,oneof=cash store_credit"`
}

// POST /api/admin/withdrawals/force
//
// Superadmin-initiated withdrawal on behalf of an agent. The channel rule is
// bypassed; the no-negative-balance invariant is not.
func ForceWithdrawHandler(w http.ResponseWriter, r *http.Request) {
	var req ForceWithdrawRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid amount"})
		return
	}

	db := database.DB
	var agent models.User
	if err := db.First(&agent, req.AgentID).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Agent not found"})
		return
	}

	wd, err := earnings.RequestWithdrawal(db, req.AgentID, amount, req.RedeemType, true)
	if err != nil {
		switch {
		case errors.Is(err, earnings.ErrInvalidAmount):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount must be positive with at most two decimal places"})
		case errors.Is(err, earnings.ErrInsufficientBalance):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
				Success: false,
				Message: "Agent balance does not cover the amount",
				Data:    map[string]interface{}{"withdrawal": wd},
			})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to process withdrawal"})
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Withdrawal processed successfully",
		Data:    map[string]interface{}{"withdrawal": wd},
	})
}
