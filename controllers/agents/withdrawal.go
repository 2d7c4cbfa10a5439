package agents

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/earnings"
	"github.com/APPLEMALL-KENYA/agents/middleware"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

type WithdrawalRequestBody struct {
	Amount     string `json:"amount" validate:"required"`
	RedeemType string `json:"redeem_type" validate:"required,oneof=cash store_credit"`
}

// POST /api/agents/withdrawals
func RequestWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var body WithdrawalRequestBody
	if err := middleware.ValidateJSON(w, r, &body); err != nil {
		return
	}

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid amount"})
		return
	}

	req, err := earnings.RequestWithdrawal(database.DB, uid, amount, body.RedeemType, false)
	if err != nil {
		switch {
		case errors.Is(err, earnings.ErrInvalidAmount):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount must be positive with at most two decimal places"})
		case errors.Is(err, earnings.ErrChannelMismatch):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
				Success: false,
				Message: "Redemption channel does not match amount",
				Data: map[string]interface{}{
					"required_redeem_type": earnings.RedeemTypeFor(amount),
					"cash_threshold":       earnings.CashThreshold.StringFixed(2),
				},
			})
		case errors.Is(err, earnings.ErrInsufficientBalance):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
				Success: false,
				Message: "Insufficient balance",
				Data:    map[string]interface{}{"withdrawal": req},
			})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to process withdrawal"})
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Withdrawal processed successfully",
		Data:    map[string]interface{}{"withdrawal": req},
	})
}

// GET /api/agents/withdrawals
func ListWithdrawalsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit := pagination(r)
	db := database.DB

	query := db.Model(&models.WithdrawalRequest{}).Where("agent_id = ?", uid)
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawals"})
		return
	}

	var rows []models.WithdrawalRequest
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawals"})
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
