package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Parcel lifecycle. Delivered is the event that triggers earnings for the
// assigned agent.
const (
	ParcelCreated   = "created"
	ParcelInTransit = "in_transit"
	ParcelDelivered = "delivered"
	ParcelReturned  = "returned"
	ParcelCancelled = "cancelled"
)

// Payment status of a parcel.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentPartial = "partial"
)

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:80;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

type Parcel struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	TrackingNumber string `gorm:"size:100;uniqueIndex;not null" json:"tracking_number"`
	CustomerName   string `gorm:"size:255;not null" json:"customer_name"`
	CustomerEmail  *string `gorm:"size:191" json:"customer_email,omitempty"`
	Destination    string  `gorm:"size:255;not null" json:"destination"`

	ValueKES     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"value_kes"`
	DeliveryCost decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"delivery_cost"`

	PaymentStatus string `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	Status        string `gorm:"type:varchar(20);default:'created'" json:"status"`

	// Typed relations. The responsible agent and the owning customer are
	// explicit references, never guessed from field names.
	CategoryID      *uint `gorm:"index" json:"category_id,omitempty"`
	CustomerID      *uint `gorm:"index" json:"customer_id,omitempty"`
	CreatedByID     *uint `json:"created_by_id,omitempty"`
	AssignedAgentID *uint `gorm:"index" json:"assigned_agent_id,omitempty"`

	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Customer      *User     `gorm:"foreignKey:CustomerID" json:"-"`
	AssignedAgent *User     `gorm:"foreignKey:AssignedAgentID" json:"-"`
}

func (Parcel) TableName() string {
	return "parcels"
}

// NewTrackingNumber returns a 12-character upper-case tracking number.
func NewTrackingNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// CanTransition reports whether a parcel may move from its current status to
// next. Delivered, returned and cancelled are terminal.
func (p *Parcel) CanTransition(next string) bool {
	switch p.Status {
	case ParcelCreated:
		return next == ParcelInTransit || next == ParcelCancelled
	case ParcelInTransit:
		return next == ParcelDelivered || next == ParcelReturned || next == ParcelCancelled
	default:
		return false
	}
}
