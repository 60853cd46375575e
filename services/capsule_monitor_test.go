package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chronocapsule/chrono-capsule/models"
	"github.com/chronocapsule/chrono-capsule/utils"
)

func setupMonitorTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Capsule{}, &models.Notification{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: "secret",
		Badges:   models.StringList{},
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestRunUnlockSweepReleasesOverdueCapsules(t *testing.T) {
	db := setupMonitorTestDB(t, "sweep_releases")
	user := seedUser(t, db, "sweep@example.com")

	overdue := models.Capsule{
		OwnerID:     &user.ID,
		Title:       "Letter to myself",
		Description: "open me later",
		ReleaseDate: time.Now().Add(-time.Hour),
		Status:      models.CapsuleStatusLocked,
	}
	future := models.Capsule{
		OwnerID:     &user.ID,
		Title:       "Not yet",
		Description: "still waiting",
		ReleaseDate: time.Now().Add(24 * time.Hour),
		Status:      models.CapsuleStatusLocked,
	}
	overdueDraft := models.Capsule{
		OwnerID:     &user.ID,
		Title:       "Draft memories",
		Description: "never locked",
		ReleaseDate: time.Now().Add(-time.Minute),
		Status:      models.CapsuleStatusDraft,
	}
	db.Create(&overdue)
	db.Create(&future)
	db.Create(&overdueDraft)

	monitor := NewCapsuleMonitor(db)
	monitor.RunUnlockSweep()

	var gotOverdue models.Capsule
	db.First(&gotOverdue, overdue.ID)
	assert.Equal(t, models.CapsuleStatusReleased, gotOverdue.Status)

	var gotDraft models.Capsule
	db.First(&gotDraft, overdueDraft.ID)
	assert.Equal(t, models.CapsuleStatusReleased, gotDraft.Status)

	// Kapsul yang belum jatuh tempo tidak tersentuh
	var gotFuture models.Capsule
	db.First(&gotFuture, future.ID)
	assert.Equal(t, models.CapsuleStatusLocked, gotFuture.Status)

	var notif models.Notification
	err := db.Where("capsule_id = ? AND user_id = ?", overdue.ID, user.ID).First(&notif).Error
	assert.NoError(t, err)
	assert.Equal(t, models.NotificationTypeCapsuleUnlocked, notif.Type)
	assert.Contains(t, notif.Message, "Letter to myself")
	assert.False(t, notif.IsRead)
}

func TestRunUnlockSweepIdempotentNotifications(t *testing.T) {
	db := setupMonitorTestDB(t, "sweep_idempotent")
	user := seedUser(t, db, "idempotent@example.com")

	capsule := models.Capsule{
		OwnerID:     &user.ID,
		Title:       "Once only",
		Description: "one notification please",
		ReleaseDate: time.Now().Add(-time.Hour),
		Status:      models.CapsuleStatusDraft,
	}
	db.Create(&capsule)

	monitor := NewCapsuleMonitor(db)
	monitor.RunUnlockSweep()
	monitor.RunUnlockSweep()
	monitor.RunUnlockSweep()

	var count int64
	db.Model(&models.Notification{}).
		Where("capsule_id = ? AND user_id = ? AND type = ?", capsule.ID, user.ID, models.NotificationTypeCapsuleUnlocked).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRunUnlockSweepStaleStatusRace(t *testing.T) {
	db := setupMonitorTestDB(t, "sweep_race")
	user := seedUser(t, db, "race@example.com")

	capsule := models.Capsule{
		OwnerID:     &user.ID,
		Title:       "Racy capsule",
		Description: "status update lost",
		ReleaseDate: time.Now().Add(-time.Hour),
		Status:      models.CapsuleStatusLocked,
	}
	db.Create(&capsule)

	monitor := NewCapsuleMonitor(db)
	monitor.RunUnlockSweep()

	// Simulasikan sweep kedua yang masih melihat status lama
	db.Model(&models.Capsule{}).Where("id = ?", capsule.ID).Update("status", models.CapsuleStatusLocked)
	monitor.RunUnlockSweep()

	var count int64
	db.Model(&models.Notification{}).
		Where("capsule_id = ? AND user_id = ?", capsule.ID, user.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)

	var got models.Capsule
	db.First(&got, capsule.ID)
	assert.Equal(t, models.CapsuleStatusReleased, got.Status)
}

func TestNotifyUnlockedAlreadyNotified(t *testing.T) {
	db := setupMonitorTestDB(t, "sweep_already_notified")
	user := seedUser(t, db, "already@example.com")

	capsule := models.Capsule{
		OwnerID:     &user.ID,
		Title:       "Old news",
		Description: "told you already",
		ReleaseDate: time.Now().Add(-time.Hour),
		Status:      models.CapsuleStatusReleased,
	}
	db.Create(&capsule)

	capsuleID := capsule.ID
	db.Create(&models.Notification{
		UserID:    user.ID,
		CapsuleID: &capsuleID,
		Message:   `Your capsule "Old news" has been unlocked! 🎉`,
		Type:      models.NotificationTypeCapsuleUnlocked,
	})

	monitor := NewCapsuleMonitor(db)
	err := monitor.notifyUnlocked(capsule)
	assert.NoError(t, err)

	var count int64
	db.Model(&models.Notification{}).
		Where("capsule_id = ? AND user_id = ? AND type = ?", capsule.ID, user.ID, models.NotificationTypeCapsuleUnlocked).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUnlockNotificationUniqueIndexTranslated(t *testing.T) {
	db := setupMonitorTestDB(t, "sweep_unique_index")
	user := seedUser(t, db, "unique@example.com")

	capsule := models.Capsule{
		OwnerID:     &user.ID,
		Title:       "One row only",
		Description: "index enforced",
		ReleaseDate: time.Now().Add(-time.Hour),
		Status:      models.CapsuleStatusReleased,
	}
	db.Create(&capsule)

	capsuleID := capsule.ID
	notif := models.Notification{
		UserID:    user.ID,
		CapsuleID: &capsuleID,
		Message:   "first writer wins",
		Type:      models.NotificationTypeCapsuleUnlocked,
	}
	assert.NoError(t, db.Create(&notif).Error)

	// Penulis kedua di race check-then-insert kalah di index unik dan
	// harus melihat gorm.ErrDuplicatedKey, bukan error driver mentah
	dup := models.Notification{
		UserID:    user.ID,
		CapsuleID: &capsuleID,
		Message:   "second writer loses",
		Type:      models.NotificationTypeCapsuleUnlocked,
	}
	err := db.Create(&dup).Error
	assert.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRunUnlockSweepSkipsOwnerlessCapsule(t *testing.T) {
	db := setupMonitorTestDB(t, "sweep_ownerless")

	capsule := models.Capsule{
		Title:       "Orphan capsule",
		Description: "nobody owns me",
		ReleaseDate: time.Now().Add(-time.Hour),
		Status:      models.CapsuleStatusLocked,
	}
	db.Create(&capsule)

	monitor := NewCapsuleMonitor(db)
	monitor.RunUnlockSweep()

	var got models.Capsule
	db.First(&got, capsule.ID)
	assert.Equal(t, models.CapsuleStatusLocked, got.Status)

	var count int64
	db.Model(&models.Notification{}).Where("capsule_id = ?", capsule.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestMonitorStartStop(t *testing.T) {
	db := setupMonitorTestDB(t, "monitor_lifecycle")
	user := seedUser(t, db, "lifecycle@example.com")

	capsule := models.Capsule{
		OwnerID:     &user.ID,
		Title:       "Startup sweep",
		Description: "released on boot",
		ReleaseDate: time.Now().Add(-time.Hour),
		Status:      models.CapsuleStatusLocked,
	}
	db.Create(&capsule)

	monitor := NewCapsuleMonitor(db)
	monitor.Interval = time.Hour // tick berikutnya tidak relevan untuk test ini
	monitor.Start()
	defer monitor.Stop()

	// Sweep pertama berjalan langsung saat Start
	assert.Eventually(t, func() bool {
		var got models.Capsule
		db.First(&got, capsule.ID)
		return got.Status == models.CapsuleStatusReleased
	}, 2*time.Second, 20*time.Millisecond)
}
