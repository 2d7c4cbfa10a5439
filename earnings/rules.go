package earnings

import (
	"errors"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/APPLEMALL-KENYA/agents/models"
)

// RateFor returns the commission percentage for a delivery category. A lookup
// miss is not an error: unknown categories still generate earnings at the
// base rate, so the miss yields 0% and is only logged.
func RateFor(db *gorm.DB, category string) decimal.Decimal {
	var rule models.AgentCommissionRule
	if err := db.Where("category = ?", category).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[earnings] no commission rule for category %q, using 0%%", category)
		} else {
			log.Printf("[earnings] commission rule lookup failed for %q: %v", category, err)
		}
		return decimal.Zero
	}
	return rule.Percentage
}

// ValidAmount reports whether d is a well-formed positive monetary value:
// strictly positive with at most two decimal places.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(2))
}
