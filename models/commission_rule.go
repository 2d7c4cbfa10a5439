package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgentCommissionRule is the superadmin-defined commission percentage for one
// delivery category. A category without a rule earns 0% commission.
type AgentCommissionRule struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Category   string          `gorm:"size:100;uniqueIndex;not null" json:"category"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percentage"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (AgentCommissionRule) TableName() string {
	return "agent_commission_rules"
}
