package earnings

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/notifications"
)

// DefaultBaseAmount is the flat KES 50 base paid per delivery when the
// delivery-completion event carries no amount.
var DefaultBaseAmount = decimal.RequireFromString("50.00")

// RecordEarning handles a delivery-completed event for an agent. It computes
// commission from the rule table in effect, stores an immutable earning
// record, credits the earning total to the agent's wallet, and, when the
// agent has a parent, credits the fixed 5% override bonus to the parent. All
// rows and both credits commit atomically.
//
// Recording the same agent+parcel pair again is a no-op that returns the
// stored earning: a delivery reported twice must not pay twice.
func RecordEarning(db *gorm.DB, agentID, parcelID uint, category string, baseAmount decimal.Decimal) (*models.DeliveryEarning, error) {
	if baseAmount.IsZero() {
		baseAmount = DefaultBaseAmount
	}
	if !ValidAmount(baseAmount) {
		return nil, ErrInvalidAmount
	}

	var agent models.User
	if err := db.First(&agent, agentID).Error; err != nil {
		return nil, err
	}

	rate := RateFor(db, category)

	earning := &models.DeliveryEarning{
		AgentID:    agentID,
		ParcelID:   parcelID,
		Category:   category,
		BaseAmount: baseAmount,
	}
	earning.CalculateTotal(rate)

	var bonus *models.SubAgentCommission
	created := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.DeliveryEarning
		err := tx.Where("agent_id = ? AND parcel_id = ?", agentID, parcelID).First(&existing).Error
		if err == nil {
			earning = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(earning).Error; err != nil {
			return err
		}
		if _, err := creditTx(tx, agentID, earning.TotalAmount, models.KindEarning, ""); err != nil {
			return err
		}

		if agent.ParentID != nil {
			b := &models.SubAgentCommission{
				ParentAgentID:     *agent.ParentID,
				SubagentID:        agentID,
				DeliveryEarningID: earning.ID,
			}
			b.CalculateBonus(earning.TotalAmount)
			if err := tx.Create(b).Error; err != nil {
				return err
			}
			if _, err := creditTx(tx, b.ParentAgentID, b.BonusAmount, models.KindSubagentBonus, ""); err != nil {
				return err
			}
			bonus = b
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		notifications.Notify(db, agentID, "Delivery recorded",
			fmt.Sprintf("Delivery recorded. You earned KES %s.", earning.TotalAmount.StringFixed(2)), nil)
		if bonus != nil {
			notifications.Notify(db, bonus.ParentAgentID, "Sub-agent commission",
				fmt.Sprintf("You earned KES %s commission from %s's delivery.", bonus.BonusAmount.StringFixed(2), agent.Name), nil)
		}
	}
	return earning, nil
}

// RecordRiderEarning credits the rider wallet for a delivered job at the flat
// per-kilometre rate.
func RecordRiderEarning(db *gorm.DB, riderUserID uint, kmTravelled decimal.Decimal) (*models.WalletTransaction, error) {
	if kmTravelled.IsNegative() || kmTravelled.IsZero() {
		return nil, ErrInvalidAmount
	}
	amount := models.RiderEarningPerKM.Mul(kmTravelled).Round(2)
	msg := fmt.Sprintf("Delivery earning of KES %s credited.", amount.StringFixed(2))
	return Credit(db, riderUserID, amount, models.KindRiderDelivery, msg)
}
