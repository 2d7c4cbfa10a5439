package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the durable running balance for one agent or rider. Balance is
// never written directly by handlers; every change goes through the ledger
// credit/debit operations so the non-negative invariant holds.
type Wallet struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OwnerID   uint            `gorm:"uniqueIndex;not null" json:"owner_id"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Wallet) TableName() string {
	return "wallets"
}
