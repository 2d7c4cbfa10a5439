package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

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

func createUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()
	u := &models.User{
		Name:     name,
		Email:    name + "@applemall.test",
		Password: "x",
		Role:     role,
		Status:   "Active",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func parcelStatusRequest(parcelID, userID uint, role, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/parcels/0/status", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(r.Context(), utils.UserIDKey, userID)
	ctx = context.WithValue(ctx, utils.UserRoleKey, role)
	r = r.WithContext(ctx)
	return mux.SetURLVars(r, map[string]string{"id": strconv.FormatUint(uint64(parcelID), 10)})
}

func TestUpdateParcelStatusOnlyAssignedAgent(t *testing.T) {
	db := newTestDB(t)
	assigned := createUser(t, db, "assigned", models.RoleAgent)
	other := createUser(t, db, "other", models.RoleAgent)

	parcel := models.Parcel{
		TrackingNumber:  models.NewTrackingNumber(),
		CustomerName:    "Jane",
		Destination:     "Kisumu",
		Status:          models.ParcelInTransit,
		AssignedAgentID: &assigned.ID,
	}
	if err := db.Create(&parcel).Error; err != nil {
		t.Fatalf("create parcel: %v", err)
	}

	rec := httptest.NewRecorder()
	UpdateParcelStatusHandler(rec, parcelStatusRequest(parcel.ID, other.ID, models.RoleAgent, `{"status":"delivered"}`))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unassigned agent: status = %d, want %d (%s)", rec.Code, http.StatusForbidden, rec.Body.String())
	}

	var reloaded models.Parcel
	if err := db.First(&reloaded, parcel.ID).Error; err != nil {
		t.Fatalf("reload parcel: %v", err)
	}
	if reloaded.Status != models.ParcelInTransit {
		t.Errorf("parcel status = %s, want %s", reloaded.Status, models.ParcelInTransit)
	}
	var earned int64
	db.Model(&models.DeliveryEarning{}).Count(&earned)
	if earned != 0 {
		t.Errorf("earnings recorded = %d, want 0", earned)
	}

	rec = httptest.NewRecorder()
	UpdateParcelStatusHandler(rec, parcelStatusRequest(parcel.ID, assigned.ID, models.RoleAgent, `{"status":"delivered"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("assigned agent: status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	db.Model(&models.DeliveryEarning{}).Where("agent_id = ?", assigned.ID).Count(&earned)
	if earned != 1 {
		t.Errorf("earnings for assigned agent = %d, want 1", earned)
	}
}

func TestUpdateParcelStatusSuperadminAllowed(t *testing.T) {
	db := newTestDB(t)
	assigned := createUser(t, db, "assigned", models.RoleAgent)
	admin := createUser(t, db, "admin", models.RoleSuperadmin)

	parcel := models.Parcel{
		TrackingNumber:  models.NewTrackingNumber(),
		CustomerName:    "Jane",
		Destination:     "Eldoret",
		Status:          models.ParcelCreated,
		AssignedAgentID: &assigned.ID,
	}
	if err := db.Create(&parcel).Error; err != nil {
		t.Fatalf("create parcel: %v", err)
	}

	rec := httptest.NewRecorder()
	UpdateParcelStatusHandler(rec, parcelStatusRequest(parcel.ID, admin.ID, models.RoleSuperadmin, `{"status":"in_transit"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("superadmin: status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var reloaded models.Parcel
	if err := db.First(&reloaded, parcel.ID).Error; err != nil {
		t.Fatalf("reload parcel: %v", err)
	}
	if reloaded.Status != models.ParcelInTransit {
		t.Errorf("parcel status = %s, want %s", reloaded.Status, models.ParcelInTransit)
	}
}
