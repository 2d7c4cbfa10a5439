package admins

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

// GET /api/admin/dashboard
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	var (
		totalAgents      int64
		totalSubagents   int64
		totalRiders      int64
		totalParcels     int64
		deliveredParcels int64
		pendingParcels   int64
		openJobs         int64
	)
	db.Model(&models.User{}).Where("role = ?", models.RoleAgent).Count(&totalAgents)
	db.Model(&models.User{}).Where("role = ?", models.RoleSubagent).Count(&totalSubagents)
	db.Model(&models.RiderProfile{}).Count(&totalRiders)
	db.Model(&models.Parcel{}).Count(&totalParcels)
	db.Model(&models.Parcel{}).Where("status = ?", models.ParcelDelivered).Count(&deliveredParcels)
	db.Model(&models.Parcel{}).Where("status IN ?", []string{models.ParcelCreated, models.ParcelInTransit}).Count(&pendingParcels)
	db.Model(&models.AvailableJob{}).Count(&openJobs)

	var totalEarningsPaid, totalBonusesPaid, totalWithdrawn, walletLiability decimal.Decimal
	db.Model(&models.DeliveryEarning{}).Select("COALESCE(SUM(total_amount), 0)").Scan(&totalEarningsPaid)
	db.Model(&models.SubAgentCommission{}).Select("COALESCE(SUM(bonus_amount), 0)").Scan(&totalBonusesPaid)
	db.Model(&models.WalletTransaction{}).Where("flow = ? AND kind = ?", models.FlowDebit, models.KindWithdrawal).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalWithdrawn)
	db.Model(&models.Wallet{}).Select("COALESCE(SUM(balance), 0)").Scan(&walletLiability)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"agents": map[string]interface{}{
				"total":      totalAgents,
				"sub_agents": totalSubagents,
			},
			"riders": totalRiders,
			"parcels": map[string]interface{}{
				"total":     totalParcels,
				"delivered": deliveredParcels,
				"pending":   pendingParcels,
				"open_jobs": openJobs,
			},
			"money": map[string]interface{}{
				"earnings_paid":    totalEarningsPaid.StringFixed(2),
				"bonuses_paid":     totalBonusesPaid.StringFixed(2),
				"total_withdrawn":  totalWithdrawn.StringFixed(2),
				"wallet_liability": walletLiability.StringFixed(2),
			},
		},
	})
}
