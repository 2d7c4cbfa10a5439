package admins

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/middleware"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

type CommissionRuleRequest struct {
	Category   string `json:"category" validate:"required,min=2"`
	Percentage string `json:"percentage" validate:"required"`
}

// GET /api/admin/commission-rules
func ListCommissionRulesHandler(w http.ResponseWriter, r *http.Request) {
	var rules []models.AgentCommissionRule
	if err := database.DB.Order("category").Find(&rules).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve rules"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: rules})
}

// POST /api/admin/commission-rules
//
// Upserts by category: one rule per category, later writes replace earlier
// ones. Already-recorded earnings are never rewritten.
func UpsertCommissionRuleHandler(w http.ResponseWriter, r *http.Request) {
	var req CommissionRuleRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	percentage, err := decimal.NewFromString(req.Percentage)
	if err != nil || percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Percentage must be between 0 and 100"})
		return
	}

	db := database.DB
	category := strings.TrimSpace(req.Category)

	var rule models.AgentCommissionRule
	err = db.Where("category = ?", category).First(&rule).Error
	switch {
	case err == nil:
		if err := db.Model(&rule).Update("percentage", percentage).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update rule"})
			return
		}
		rule.Percentage = percentage
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Commission rule updated", Data: rule})
	case errors.Is(err, gorm.ErrRecordNotFound):
		rule = models.AgentCommissionRule{Category: category, Percentage: percentage}
		if err := db.Create(&rule).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create rule"})
			return
		}
		utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Commission rule created", Data: rule})
	default:
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
	}
}

// DELETE /api/admin/commission-rules/{id}
//
// Deleting a rule drops its category back to 0% commission for future
// deliveries.
func DeleteCommissionRuleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid rule id"})
		return
	}

	res := database.DB.Delete(&models.AgentCommissionRule{}, uint(id))
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to delete rule"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Rule not found"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Commission rule deleted"})
}
