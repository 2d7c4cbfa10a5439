package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/earnings"
	"github.com/APPLEMALL-KENYA/agents/middleware"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/notifications"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

type CreateParcelRequest struct {
	CustomerName    string  `json:"customer_name" validate:"required,min=2"`
	CustomerEmail   *string `json:"customer_email,omitempty" validate:"omitempty,email"`
	Destination     string  `json:"destination" validate:"required,min=2"`
	ValueKES        string  `json:"value_kes"`
	DeliveryCost    string  `json:"delivery_cost"`
	CategoryID      *uint   `json:"category_id,omitempty"`
	CustomerID      *uint   `json:"customer_id,omitempty"`
	AssignedAgentID *uint   `json:"assigned_agent_id,omitempty"`
	OpenForBids     bool    `json:"open_for_bids"`
}

// POST /api/parcels
func CreateParcelHandler(w http.ResponseWriter, r *http.Request) {
	uid, _ := utils.GetUserID(r)

	var req CreateParcelRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	value, err := parseAmount(req.ValueKES)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid value_kes"})
		return
	}
	cost, err := parseAmount(req.DeliveryCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid delivery_cost"})
		return
	}

	if req.CategoryID != nil {
		var cat models.Category
		if err := db.First(&cat, *req.CategoryID).Error; err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Category not found"})
			return
		}
	}
	if req.AssignedAgentID != nil {
		var agent models.User
		if err := db.First(&agent, *req.AssignedAgentID).Error; err != nil || !agent.IsAgent() {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Assigned agent not found"})
			return
		}
	}

	parcel := models.Parcel{
		TrackingNumber:  models.NewTrackingNumber(),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		Destination:     req.Destination,
		ValueKES:        value,
		DeliveryCost:    cost,
		PaymentStatus:   models.PaymentPending,
		Status:          models.ParcelCreated,
		CategoryID:      req.CategoryID,
		CustomerID:      req.CustomerID,
		AssignedAgentID: req.AssignedAgentID,
	}
	if uid != 0 {
		parcel.CreatedByID = &uid
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&parcel).Error; err != nil {
			return err
		}
		if req.OpenForBids {
			job := models.AvailableJob{ParcelID: parcel.ID, MinBidAmount: models.RiderEarningPerKM}
			if err := tx.Create(&job).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create parcel"})
		return
	}

	if parcel.AssignedAgentID != nil {
		notifications.Notify(db, *parcel.AssignedAgentID, "Parcel assigned",
			fmt.Sprintf("Parcel %s to %s has been assigned to you.", parcel.TrackingNumber, parcel.Destination), nil)
	}
	if parcel.CustomerID != nil {
		notifications.Notify(db, *parcel.CustomerID, "Parcel created",
			fmt.Sprintf("Your parcel %s has been registered.", parcel.TrackingNumber), nil)
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Parcel created", Data: parcel})
}

type UpdateParcelStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_transit delivered returned cancelled"`
	// BaseAmount optionally overrides the flat delivery base when the parcel
	// is delivered. Zero or absent uses the default.
	BaseAmount string `json:"base_amount,omitempty"`
}

// PATCH /api/parcels/{id}/status
//
// Moving a parcel to delivered is the earnings trigger: the assigned agent is
// paid through the earnings engine exactly once per parcel.
func UpdateParcelStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid parcel id"})
		return
	}

	var req UpdateParcelStatusRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	var parcel models.Parcel
	if err := db.First(&parcel, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Parcel not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// Only the assigned agent (or a superadmin) may move a parcel, so an
	// unrelated agent cannot trigger someone's delivery payout.
	if utils.GetUserRole(r) != models.RoleSuperadmin {
		uid, _ := utils.GetUserID(r)
		if parcel.AssignedAgentID == nil || *parcel.AssignedAgentID != uid {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Only the assigned agent can update this parcel"})
			return
		}
	}

	if !parcel.CanTransition(req.Status) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: fmt.Sprintf("Cannot move parcel from %s to %s", parcel.Status, req.Status),
		})
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Status == models.ParcelDelivered {
		now := time.Now()
		updates["delivered_at"] = &now
	}
	if err := db.Model(&parcel).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update parcel"})
		return
	}
	parcel.Status = req.Status

	var earning *models.DeliveryEarning
	if req.Status == models.ParcelDelivered && parcel.AssignedAgentID != nil {
		base := decimal.Zero
		if req.BaseAmount != "" {
			base, err = decimal.NewFromString(req.BaseAmount)
			if err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid base_amount"})
				return
			}
		}
		category := ""
		if parcel.CategoryID != nil {
			var cat models.Category
			if err := db.First(&cat, *parcel.CategoryID).Error; err == nil {
				category = cat.Name
			}
		}
		earning, err = earnings.RecordEarning(db, *parcel.AssignedAgentID, parcel.ID, category, base)
		if err != nil {
			// The parcel is delivered regardless; the earning failure is
			// surfaced for retry.
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
				Success: false,
				Message: "Parcel delivered but earning could not be recorded",
			})
			return
		}
	}

	if parcel.CustomerID != nil {
		notifications.Notify(db, *parcel.CustomerID, "Parcel update",
			fmt.Sprintf("Your parcel %s is now %s.", parcel.TrackingNumber, parcel.Status), nil)
	}

	data := map[string]interface{}{"parcel": parcel}
	if earning != nil {
		data["earning"] = earning
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Parcel updated", Data: data})
}

// GET /api/parcels/track/{tracking_number} — public tracking, no auth.
func TrackParcelHandler(w http.ResponseWriter, r *http.Request) {
	trackingNumber := mux.Vars(r)["tracking_number"]

	var parcel models.Parcel
	if err := database.DB.Preload("Category").
		Where("tracking_number = ?", trackingNumber).First(&parcel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Parcel not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"tracking_number": parcel.TrackingNumber,
			"destination":     parcel.Destination,
			"status":          parcel.Status,
			"delivered_at":    parcel.DeliveredAt,
			"created_at":      parcel.CreatedAt,
		},
	})
}

// GET /api/parcels
func ListParcelsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	query := db.Model(&models.Parcel{}).Preload("Category")

	// Agents see parcels assigned to them, customers their own, superadmins
	// everything.
	switch utils.GetUserRole(r) {
	case models.RoleSuperadmin:
	case models.RoleCustomer:
		query = query.Where("customer_id = ?", uid)
	default:
		query = query.Where("assigned_agent_id = ?", uid)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var parcels []models.Parcel
	if err := query.Order("id DESC").Limit(100).Find(&parcels).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve parcels"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: parcels})
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}
