package earnings

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/notifications"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

// CashThreshold splits redemption channels: below it earnings redeem as
// Applemall store credit, at or above it as cash.
var CashThreshold = decimal.NewFromInt(500)

// RedeemTypeFor returns the redemption channel required for amount.
func RedeemTypeFor(amount decimal.Decimal) string {
	if amount.LessThan(CashThreshold) {
		return models.RedeemStoreCredit
	}
	return models.RedeemCash
}

// RequestWithdrawal validates and executes an agent withdrawal.
//
// The channel rule is checked before anything is persisted: a request pairing
// the wrong redeem type with its amount fails with ErrChannelMismatch and no
// record is written. A valid request is stored as pending, then the wallet is
// debited; the debit outcome moves the request to its terminal state,
// approved or rejected. Superadmin-initiated withdrawals pass adminOverride
// to skip the channel check (an empty redeemType then defaults to the channel
// the amount calls for) but take the same debit path.
func RequestWithdrawal(db *gorm.DB, agentID uint, amount decimal.Decimal, redeemType string, adminOverride bool) (*models.WithdrawalRequest, error) {
	if !ValidAmount(amount) {
		return nil, ErrInvalidAmount
	}
	if adminOverride && redeemType == "" {
		redeemType = RedeemTypeFor(amount)
	}
	if redeemType != models.RedeemCash && redeemType != models.RedeemStoreCredit {
		return nil, ErrChannelMismatch
	}
	if !adminOverride && redeemType != RedeemTypeFor(amount) {
		return nil, ErrChannelMismatch
	}

	req := &models.WithdrawalRequest{
		AgentID:    agentID,
		Amount:     amount,
		RedeemType: redeemType,
		Status:     models.WithdrawalPending,
		Reference:  utils.NewReference("WDR"),
	}
	if err := db.Create(req).Error; err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Your withdrawal of KES %s via %s was processed.", amount.StringFixed(2), redeemType)
	if _, err := Debit(db, agentID, amount, models.KindWithdrawal, msg); err != nil {
		reason := err.Error()
		req.Status = models.WithdrawalRejected
		req.Reason = &reason
		if uerr := db.Model(req).Updates(map[string]interface{}{
			"status": models.WithdrawalRejected,
			"reason": reason,
		}).Error; uerr != nil {
			log.Printf("[earnings] failed to mark withdrawal %s rejected: %v", req.Reference, uerr)
		}
		notifications.Notify(db, agentID, "Withdrawal update",
			fmt.Sprintf("Your withdrawal request of KES %s has been rejected: %s.", amount.StringFixed(2), reason), nil)
		return req, err
	}

	req.Status = models.WithdrawalApproved
	if err := db.Model(req).Update("status", models.WithdrawalApproved).Error; err != nil {
		// The debit already committed; the request row is corrected on the
		// next reconciliation rather than reversing the ledger.
		log.Printf("[earnings] failed to mark withdrawal %s approved: %v", req.Reference, err)
	}
	return req, nil
}
