package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Redemption channels. Amounts below the cash threshold can only be redeemed
// as Applemall store credit.
const (
	RedeemCash        = "cash"
	RedeemStoreCredit = "store_credit"
)

// Withdrawal request states. Approved and rejected are terminal.
const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

type WithdrawalRequest struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	AgentID    uint            `gorm:"not null;index" json:"agent_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	RedeemType string          `gorm:"type:varchar(20);not null" json:"redeem_type"`
	Status     string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Reference  string          `gorm:"type:varchar(191);not null;uniqueIndex" json:"reference"`
	Reason     *string         `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Agent *User `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
