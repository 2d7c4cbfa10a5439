package database

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/APPLEMALL-KENYA/agents/models"
)

// backupArgs splits DB_BACKUP_FLAGS into individual mysqldump arguments. An
// empty or whitespace-only value yields no arguments.
func backupArgs() []string {
	return strings.Fields(os.Getenv("DB_BACKUP_FLAGS"))
}

// BackupDatabase attempts to create a SQL dump using mysqldump if it's
// available on PATH. Dump flags come from DB_BACKUP_FLAGS.
func BackupDatabase(outPath string) error {
	if _, err := exec.LookPath("mysqldump"); err != nil {
		return fmt.Errorf("mysqldump not found in PATH: %w", err)
	}
	cmd := exec.CommandContext(context.Background(), "mysqldump", backupArgs()...)
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	cmd.Stdout = outFile
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("mysqldump failed: %w", err)
	}
	return nil
}

// MigrateAll runs AutoMigrate for every persistent model. A best-effort
// mysqldump backup is attempted first when DB_BACKUP_PATH is set.
func MigrateAll(db *gorm.DB) error {
	if backupPath := os.Getenv("DB_BACKUP_PATH"); backupPath != "" {
		go func() {
			_ = BackupDatabase(backupPath)
		}()
		time.Sleep(500 * time.Millisecond)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.RevokedToken{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.AgentCommissionRule{},
		&models.DeliveryEarning{},
		&models.SubAgentCommission{},
		&models.WithdrawalRequest{},
		&models.Notification{},
		&models.Category{},
		&models.Parcel{},
		&models.RiderProfile{},
		&models.AvailableJob{},
		&models.Job{},
		&models.RiderRating{},
	)
}
