package riders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/earnings"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

// newTestDB opens a file-backed sqlite database and installs it as the shared
// handle the handlers read. A file (not :memory:) is required for the
// concurrency test below.
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
	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

// createRiderWithJob seeds an active rider holding an in-progress job on an
// in-transit parcel.
func createRiderWithJob(t *testing.T, db *gorm.DB) (*models.User, *models.RiderProfile, *models.Job) {
	t.Helper()
	user := &models.User{
		Name:     "rider",
		Email:    "rider@applemall.test",
		Password: "x",
		Role:     models.RoleRider,
		Status:   "Active",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create rider user: %v", err)
	}
	profile := &models.RiderProfile{UserID: user.ID, Phone: "0712345678", Status: models.RiderActive}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create rider profile: %v", err)
	}
	parcel := &models.Parcel{
		TrackingNumber: models.NewTrackingNumber(),
		CustomerName:   "Jane",
		Destination:    "Nakuru",
		Status:         models.ParcelInTransit,
	}
	if err := db.Create(parcel).Error; err != nil {
		t.Fatalf("create parcel: %v", err)
	}
	job := &models.Job{
		ParcelID:  parcel.ID,
		RiderID:   profile.ID,
		Status:    models.JobInProgress,
		BidAmount: decimal.NewFromInt(60),
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("create job: %v", err)
	}
	return user, profile, job
}

func jobStatusRequest(jobID, userID uint, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/riders/jobs/0/status", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(r.Context(), utils.UserIDKey, userID)
	ctx = context.WithValue(ctx, utils.UserRoleKey, models.RoleRider)
	r = r.WithContext(ctx)
	return mux.SetURLVars(r, map[string]string{"id": strconv.FormatUint(uint64(jobID), 10)})
}

func TestUpdateJobStatusDeliveredTwicePaysOnce(t *testing.T) {
	db := newTestDB(t)
	user, profile, job := createRiderWithJob(t, db)
	body := `{"status":"DELIVERED","km_travelled":"5"}`

	first := httptest.NewRecorder()
	UpdateJobStatusHandler(first, jobStatusRequest(job.ID, user.ID, body))
	if first.Code != http.StatusOK {
		t.Fatalf("first delivery: status = %d, want %d (%s)", first.Code, http.StatusOK, first.Body.String())
	}

	second := httptest.NewRecorder()
	UpdateJobStatusHandler(second, jobStatusRequest(job.ID, user.ID, body))
	if second.Code != http.StatusBadRequest {
		t.Fatalf("second delivery: status = %d, want %d (%s)", second.Code, http.StatusBadRequest, second.Body.String())
	}

	balance, err := earnings.Balance(db, user.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if want := decimal.RequireFromString("300.00"); !balance.Equal(want) {
		t.Errorf("balance = %s, want %s", balance, want)
	}

	var payouts int64
	db.Model(&models.WalletTransaction{}).Where("kind = ?", models.KindRiderDelivery).Count(&payouts)
	if payouts != 1 {
		t.Errorf("rider delivery ledger entries = %d, want 1", payouts)
	}

	var reloaded models.RiderProfile
	if err := db.First(&reloaded, profile.ID).Error; err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if reloaded.TotalJobs != 1 {
		t.Errorf("total_jobs = %d, want 1", reloaded.TotalJobs)
	}
}

func TestUpdateJobStatusConcurrentDeliveriesPayOnce(t *testing.T) {
	db := newTestDB(t)
	user, profile, job := createRiderWithJob(t, db)
	body := `{"status":"DELIVERED","km_travelled":"5"}`

	const workers = 4
	codes := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			UpdateJobStatusHandler(rec, jobStatusRequest(job.ID, user.ID, body))
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	delivered := 0
	for _, c := range codes {
		if c == http.StatusOK {
			delivered++
		}
	}
	if delivered != 1 {
		t.Fatalf("successful deliveries = %d, want exactly 1 (codes %v)", delivered, codes)
	}

	balance, err := earnings.Balance(db, user.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if want := decimal.RequireFromString("300.00"); !balance.Equal(want) {
		t.Errorf("balance = %s, want %s", balance, want)
	}

	var reloaded models.RiderProfile
	if err := db.First(&reloaded, profile.ID).Error; err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if reloaded.TotalJobs != 1 {
		t.Errorf("total_jobs = %d, want 1", reloaded.TotalJobs)
	}
}
