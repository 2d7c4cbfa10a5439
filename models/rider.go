package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rider account states.
const (
	RiderActive    = "ACTIVE"
	RiderSuspended = "SUSPENDED"
	RiderProbation = "PROBATION"
)

// Job states for an accepted delivery job.
const (
	JobInProgress = "IN_PROGRESS"
	JobArrived    = "ARRIVED"
	JobDelivered  = "DELIVERED"
)

// RiderEarningPerKM is the flat rate credited per kilometre travelled on a
// delivered job.
var RiderEarningPerKM = decimal.NewFromInt(60)

type RiderProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Status    string    `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	Rating    float64   `gorm:"not null;default:0" json:"rating"`
	TotalJobs int       `gorm:"not null;default:0" json:"total_jobs"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (RiderProfile) TableName() string {
	return "rider_profiles"
}

// AvailableJob is a parcel open for rider bids. Accepting a bid deletes the
// row and creates a Job.
type AvailableJob struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ParcelID     uint            `gorm:"uniqueIndex;not null" json:"parcel_id"`
	MinBidAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:60.00" json:"min_bid_amount"`
	CreatedAt    time.Time       `json:"created_at"`

	Parcel *Parcel `gorm:"foreignKey:ParcelID" json:"parcel,omitempty"`
}

func (AvailableJob) TableName() string {
	return "available_jobs"
}

type Job struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ParcelID    uint            `gorm:"uniqueIndex;not null" json:"parcel_id"`
	RiderID     uint            `gorm:"not null;index" json:"rider_id"`
	Status      string          `gorm:"type:varchar(20);default:'IN_PROGRESS'" json:"status"`
	BidAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:60.00" json:"bid_amount"`
	AssignedAt  time.Time       `gorm:"autoCreateTime" json:"assigned_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`

	Parcel *Parcel       `gorm:"foreignKey:ParcelID" json:"parcel,omitempty"`
	Rider  *RiderProfile `gorm:"foreignKey:RiderID" json:"rider,omitempty"`
}

func (Job) TableName() string {
	return "jobs"
}

type RiderRating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RiderID   uint      `gorm:"not null;index" json:"rider_id"`
	ClientID  uint      `gorm:"not null" json:"client_id"`
	JobID     uint      `gorm:"not null" json:"job_id"`
	Rating    uint      `gorm:"not null" json:"rating"` // 1-5
	Comment   *string   `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (RiderRating) TableName() string {
	return "rider_ratings"
}
