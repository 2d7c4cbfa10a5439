package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubagentBonusPercent is the fixed override rate a parent agent earns on a
// sub-agent's delivery. Deliberately not configurable through the commission
// rule table.
var SubagentBonusPercent = decimal.NewFromInt(5)

// SubAgentCommission records the one-level override bonus credited to the
// parent agent when a sub-agent earns. Grandparents receive nothing.
type SubAgentCommission struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	ParentAgentID     uint            `gorm:"not null;index" json:"parent_agent_id"`
	SubagentID        uint            `gorm:"not null;index" json:"subagent_id"`
	DeliveryEarningID uint            `gorm:"not null;uniqueIndex" json:"delivery_earning_id"`
	BonusAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"bonus_amount"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (SubAgentCommission) TableName() string {
	return "subagent_commissions"
}

// CalculateBonus sets BonusAmount to 5% of the earning total.
func (c *SubAgentCommission) CalculateBonus(earningTotal decimal.Decimal) decimal.Decimal {
	c.BonusAmount = SubagentBonusPercent.Mul(earningTotal).Div(decimal.NewFromInt(100)).Round(2)
	return c.BonusAmount
}
