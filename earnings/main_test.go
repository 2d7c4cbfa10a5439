package earnings

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/models"
)

// newTestDB opens a fresh file-backed sqlite database per test. A file (not
// :memory:) is required for the concurrency tests, where several goroutines
// share the pool.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.MigrateAll(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createAgent(t *testing.T, db *gorm.DB, name string, parentID *uint) *models.User {
	t.Helper()
	role := models.RoleAgent
	if parentID != nil {
		role = models.RoleSubagent
	}
	u := &models.User{
		Name:     name,
		Email:    name + "@applemall.test",
		Password: "x",
		Role:     role,
		ParentID: parentID,
		Status:   "Active",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func createRule(t *testing.T, db *gorm.DB, category, percentage string) {
	t.Helper()
	rule := models.AgentCommissionRule{
		Category:   category,
		Percentage: decimal.RequireFromString(percentage),
	}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("create rule %s: %v", category, err)
	}
}

func mustCredit(t *testing.T, db *gorm.DB, ownerID uint, amount string) {
	t.Helper()
	if _, err := Credit(db, ownerID, decimal.RequireFromString(amount), models.KindEarning, ""); err != nil {
		t.Fatalf("credit %s to %d: %v", amount, ownerID, err)
	}
}

func balanceOf(t *testing.T, db *gorm.DB, ownerID uint) decimal.Decimal {
	t.Helper()
	b, err := Balance(db, ownerID)
	if err != nil {
		t.Fatalf("balance of %d: %v", ownerID, err)
	}
	return b
}
