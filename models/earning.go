package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryEarning is created once per completed delivery and never mutated
// afterwards. Amounts are computed by CalculateTotal before persistence; the
// stored values are a snapshot of the rule table at delivery time, so later
// rule changes do not rewrite history.
type DeliveryEarning struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	AgentID          uint            `gorm:"not null;index;uniqueIndex:idx_earning_agent_parcel" json:"agent_id"`
	ParcelID         uint            `gorm:"not null;index;uniqueIndex:idx_earning_agent_parcel" json:"parcel_id"`
	Category         string          `gorm:"size:100;not null" json:"category"`
	BaseAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_amount"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"commission_amount"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	CreatedAt        time.Time       `json:"created_at"`

	Agent *User `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

func (DeliveryEarning) TableName() string {
	return "delivery_earnings"
}

// CalculateTotal fills CommissionAmount and TotalAmount from the commission
// percentage in effect. It is a pure function of its inputs: calling it again
// with the same percentage reproduces the same totals.
func (e *DeliveryEarning) CalculateTotal(percentage decimal.Decimal) decimal.Decimal {
	e.CommissionAmount = percentage.Mul(e.BaseAmount).Div(decimal.NewFromInt(100)).Round(2)
	e.TotalAmount = e.BaseAmount.Add(e.CommissionAmount)
	return e.TotalAmount
}
