package riders

import (
	"errors"
	"fmt"
	"log"
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

type RegisterProfileRequest struct {
	Phone string `json:"phone" validate:"required,min=9"`
}

// POST /api/riders/profile
func RegisterProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req RegisterProfileRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	var existing models.RiderProfile
	if err := db.Where("user_id = ?", uid).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Rider profile already exists"})
		return
	}

	profile := models.RiderProfile{
		UserID: uid,
		Phone:  req.Phone,
		Status: models.RiderActive,
	}
	if err := db.Create(&profile).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create rider profile"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Rider profile created", Data: profile})
}

// GET /api/riders/jobs/available
func ListAvailableJobsHandler(w http.ResponseWriter, r *http.Request) {
	var jobs []models.AvailableJob
	if err := database.DB.Preload("Parcel").Order("id DESC").Limit(100).Find(&jobs).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve jobs"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: jobs})
}

type AcceptJobRequest struct {
	BidAmount string `json:"bid_amount" validate:"required"`
}

// POST /api/riders/jobs/{id}/accept
//
// First accepted bid wins: the available-job row is deleted and a Job created
// in one transaction, so two riders racing for the same parcel cannot both
// win it.
func AcceptJobHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	jobID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid job id"})
		return
	}

	var req AcceptJobRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	bid, err := decimal.NewFromString(req.BidAmount)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid bid amount"})
		return
	}

	db := database.DB

	profile, errResp := activeRiderProfile(db, uid)
	if errResp != "" {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: errResp})
		return
	}

	var job models.Job
	err = db.Transaction(func(tx *gorm.DB) error {
		var avail models.AvailableJob
		if err := tx.First(&avail, uint(jobID)).Error; err != nil {
			return err
		}
		if bid.LessThan(avail.MinBidAmount) {
			return earnings.ErrInvalidAmount
		}
		// Deleting by primary key arbitrates racing bids: only one delete
		// affects a row.
		res := tx.Delete(&models.AvailableJob{}, avail.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		job = models.Job{
			ParcelID:  avail.ParcelID,
			RiderID:   profile.ID,
			Status:    models.JobInProgress,
			BidAmount: bid,
		}
		if err := tx.Create(&job).Error; err != nil {
			return err
		}
		return tx.Model(&models.Parcel{}).Where("id = ? AND status = ?", avail.ParcelID, models.ParcelCreated).
			Update("status", models.ParcelInTransit).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Job is no longer available"})
			return
		}
		if errors.Is(err, earnings.ErrInvalidAmount) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Bid is below the minimum for this job"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to accept job"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Job accepted", Data: job})
}

type UpdateJobStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ARRIVED DELIVERED"`
	// KmTravelled is required when marking the job delivered; it drives the
	// per-kilometre payout.
	KmTravelled string `json:"km_travelled,omitempty"`
}

// PATCH /api/riders/jobs/{id}/status
func UpdateJobStatusHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	jobID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid job id"})
		return
	}

	var req UpdateJobStatusRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	profile, errResp := activeRiderProfile(db, uid)
	if errResp != "" {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: errResp})
		return
	}

	var job models.Job
	if err := db.Where("id = ? AND rider_id = ?", uint(jobID), profile.ID).First(&job).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Job not found"})
		return
	}
	if job.Status == models.JobDelivered {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Job already delivered"})
		return
	}

	if req.Status == models.JobArrived {
		if err := db.Model(&job).Update("status", models.JobArrived).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update job"})
			return
		}
		job.Status = models.JobArrived
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Job updated", Data: job})
		return
	}

	// Delivered: pay the rider per km and complete the parcel, which in turn
	// pays the assigned agent through the earnings engine.
	km, err := decimal.NewFromString(req.KmTravelled)
	if err != nil || !km.IsPositive() {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "km_travelled is required for delivery"})
		return
	}

	// The conditional update arbitrates duplicate delivery requests: only the
	// one that flips the status pays out.
	now := time.Now()
	res := db.Model(&models.Job{}).
		Where("id = ? AND status <> ?", job.ID, models.JobDelivered).
		Updates(map[string]interface{}{
			"status":       models.JobDelivered,
			"completed_at": &now,
		})
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update job"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Job already delivered"})
		return
	}
	job.Status = models.JobDelivered
	job.CompletedAt = &now

	db.Model(&models.RiderProfile{}).Where("id = ?", profile.ID).
		Update("total_jobs", gorm.Expr("total_jobs + 1"))

	if _, err := earnings.RecordRiderEarning(db, uid, km); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Job delivered but payout failed"})
		return
	}

	var parcel models.Parcel
	if err := db.First(&parcel, job.ParcelID).Error; err == nil && parcel.CanTransition(models.ParcelDelivered) {
		if err := db.Model(&parcel).Updates(map[string]interface{}{
			"status":       models.ParcelDelivered,
			"delivered_at": &now,
		}).Error; err == nil && parcel.AssignedAgentID != nil {
			category := ""
			if parcel.CategoryID != nil {
				var cat models.Category
				if err := db.First(&cat, *parcel.CategoryID).Error; err == nil {
					category = cat.Name
				}
			}
			if _, err := earnings.RecordEarning(db, *parcel.AssignedAgentID, parcel.ID, category, decimal.Zero); err != nil {
				log.Printf("[riders] agent earning for parcel %d failed: %v", parcel.ID, err)
			}
		}
		if parcel.CustomerID != nil {
			notifications.Notify(db, *parcel.CustomerID, "Parcel delivered",
				fmt.Sprintf("Your parcel %s has been delivered.", parcel.TrackingNumber), nil)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Job delivered", Data: job})
}

type RateRiderRequest struct {
	Rating  uint    `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty"`
}

// POST /api/riders/jobs/{id}/rate
func RateRiderHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	jobID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid job id"})
		return
	}

	var req RateRiderRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	var job models.Job
	if err := db.First(&job, uint(jobID)).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Job not found"})
		return
	}
	if job.Status != models.JobDelivered {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Only delivered jobs can be rated"})
		return
	}

	rating := models.RiderRating{
		RiderID:  job.RiderID,
		ClientID: uid,
		JobID:    job.ID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := db.Create(&rating).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save rating"})
		return
	}

	// Keep the profile's average in step with the ratings table.
	var avg float64
	db.Model(&models.RiderRating{}).Where("rider_id = ?", job.RiderID).
		Select("COALESCE(AVG(rating), 0)").Scan(&avg)
	db.Model(&models.RiderProfile{}).Where("id = ?", job.RiderID).Update("rating", avg)

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Rating saved", Data: rating})
}

// activeRiderProfile loads the rider profile and rejects suspended riders.
func activeRiderProfile(db *gorm.DB, userID uint) (*models.RiderProfile, string) {
	var profile models.RiderProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, "Rider profile not found"
	}
	if profile.Status == models.RiderSuspended {
		return nil, "Your rider account is suspended"
	}
	return &profile, ""
}
