package earnings

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/notifications"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

// EnsureWallet returns the wallet for ownerID, creating it with a zero
// balance if it does not exist yet.
func EnsureWallet(db *gorm.DB, ownerID uint) (*models.Wallet, error) {
	w := models.Wallet{OwnerID: ownerID, Balance: decimal.Zero}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoNothing: true,
	}).Create(&w).Error; err != nil {
		return nil, err
	}
	if err := db.Where("owner_id = ?", ownerID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// creditTx increases the wallet balance and appends a ledger entry. It must
// run inside a transaction owned by the caller.
func creditTx(tx *gorm.DB, ownerID uint, amount decimal.Decimal, kind, message string) (*models.WalletTransaction, error) {
	if !ValidAmount(amount) {
		return nil, ErrInvalidAmount
	}
	w, err := EnsureWallet(tx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Wallet{}).Where("id = ?", w.ID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
		return nil, err
	}
	entry := models.WalletTransaction{
		WalletID:  w.ID,
		OwnerID:   ownerID,
		Amount:    amount,
		Flow:      models.FlowCredit,
		Kind:      kind,
		Reference: utils.NewReference("TXN"),
	}
	if message != "" {
		entry.Message = &message
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// debitTx decreases the wallet balance if and only if the balance covers the
// amount. The balance check and the decrement are one conditional UPDATE, so
// two racing debits on the same wallet can never both pass the check and
// overdraw: the row predicate `balance >= amount` is evaluated under the
// database's row lock.
func debitTx(tx *gorm.DB, ownerID uint, amount decimal.Decimal, kind, message string) (*models.WalletTransaction, error) {
	if !ValidAmount(amount) {
		return nil, ErrInvalidAmount
	}
	res := tx.Model(&models.Wallet{}).
		Where("owner_id = ? AND balance >= ?", ownerID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the wallet is missing (zero balance) or the balance does not
		// cover the amount. Both reject the debit the same way.
		return nil, ErrInsufficientBalance
	}
	var w models.Wallet
	if err := tx.Where("owner_id = ?", ownerID).First(&w).Error; err != nil {
		return nil, err
	}
	entry := models.WalletTransaction{
		WalletID:  w.ID,
		OwnerID:   ownerID,
		Amount:    amount,
		Flow:      models.FlowDebit,
		Kind:      kind,
		Reference: utils.NewReference("TXN"),
	}
	if message != "" {
		entry.Message = &message
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Credit posts a credit to the owner's wallet and notifies the owner. Always
// succeeds for a valid amount.
func Credit(db *gorm.DB, ownerID uint, amount decimal.Decimal, kind, message string) (*models.WalletTransaction, error) {
	var entry *models.WalletTransaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = creditTx(tx, ownerID, amount, kind, message)
		return err
	})
	if err != nil {
		return nil, err
	}
	if message != "" {
		notifications.Notify(db, ownerID, "Wallet credited", message, nil)
	}
	return entry, nil
}

// Debit withdraws amount from the owner's wallet. It is all-or-nothing: any
// failure leaves the balance unchanged. On success the owner is notified with
// the given message.
func Debit(db *gorm.DB, ownerID uint, amount decimal.Decimal, kind, message string) (*models.WalletTransaction, error) {
	var entry *models.WalletTransaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = debitTx(tx, ownerID, amount, kind, message)
		return err
	})
	if err != nil {
		return nil, err
	}
	if message != "" {
		notifications.Notify(db, ownerID, "Withdrawal successful", message, nil)
	}
	return entry, nil
}

// Balance returns the current wallet balance for ownerID, zero if no wallet
// exists yet.
func Balance(db *gorm.DB, ownerID uint) (decimal.Decimal, error) {
	var w models.Wallet
	if err := db.Where("owner_id = ?", ownerID).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return w.Balance, nil
}
