package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger entry flows and kinds.
const (
	FlowCredit = "credit"
	FlowDebit  = "debit"

	KindEarning       = "earning"
	KindSubagentBonus = "subagent_bonus"
	KindRiderDelivery = "rider_delivery"
	KindWithdrawal    = "withdrawal"
)

// WalletTransaction is one ledger entry. Entries are append-only; the wallet
// balance is the sum of credits minus debits.
type WalletTransaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	WalletID  uint            `gorm:"not null;index" json:"wallet_id"`
	OwnerID   uint            `gorm:"not null;index" json:"owner_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Flow      string          `gorm:"type:varchar(10);not null" json:"flow"`
	Kind      string          `gorm:"type:varchar(50);not null" json:"kind"`
	Reference string          `gorm:"type:varchar(191);not null;uniqueIndex" json:"reference"`
	Message   *string         `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
