package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chronocapsule/chrono-capsule/badges"
	"github.com/chronocapsule/chrono-capsule/models"
)

func TestEvaluateAndAwardFirstCapsule(t *testing.T) {
	db := setupMonitorTestDB(t, "badge_first")
	user := seedUser(t, db, "first@example.com")

	capsule := models.Capsule{
		OwnerID:     &user.ID,
		Title:       "Patience",
		Description: "see you in a month",
		ReleaseDate: time.Now().Add(31 * 24 * time.Hour),
		Status:      models.CapsuleStatusLocked,
	}
	db.Create(&capsule)

	service := NewBadgeService(db)
	result, err := service.EvaluateAndAward(user.ID)
	assert.NoError(t, err)

	ids := make([]string, 0, len(result.NewBadges))
	for _, b := range result.NewBadges {
		ids = append(ids, b.ID)
	}
	assert.Contains(t, ids, badges.FirstTimer)
	assert.Contains(t, ids, badges.PatientOne)
	assert.NotContains(t, ids, badges.StarterPack)

	// Badge tersimpan di user dan notifikasi achievement dibuat
	var got models.User
	db.First(&got, user.ID)
	assert.Contains(t, got.Badges, badges.FirstTimer)

	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", user.ID, models.NotificationTypeAchievement).
		Count(&count)
	assert.Equal(t, int64(len(result.NewBadges)), count)
}

func TestEvaluateAndAwardIsIdempotent(t *testing.T) {
	db := setupMonitorTestDB(t, "badge_idempotent")
	user := seedUser(t, db, "noop@example.com")

	capsule := models.Capsule{
		OwnerID:     &user.ID,
		Title:       "Only once",
		Description: "no double awards",
		ReleaseDate: time.Now().Add(24 * time.Hour),
		Status:      models.CapsuleStatusDraft,
	}
	db.Create(&capsule)

	service := NewBadgeService(db)

	first, err := service.EvaluateAndAward(user.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, first.NewBadges)

	second, err := service.EvaluateAndAward(user.ID)
	assert.NoError(t, err)
	assert.Empty(t, second.NewBadges)
	assert.Equal(t, "No new badges earned", second.Message)

	// Tidak ada notifikasi tambahan dari panggilan kedua
	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", user.ID, models.NotificationTypeAchievement).
		Count(&count)
	assert.Equal(t, int64(len(first.NewBadges)), count)
}

func TestEvaluateAndAwardUserNotFound(t *testing.T) {
	db := setupMonitorTestDB(t, "badge_missing_user")

	service := NewBadgeService(db)
	_, err := service.EvaluateAndAward(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestComputeStats(t *testing.T) {
	db := setupMonitorTestDB(t, "badge_stats")
	user := seedUser(t, db, "stats@example.com")

	now := time.Now()

	// Dua kapsul locked, wait 40 hari dan 10 hari; satu released.
	// Buffer satu jam supaya pembulatan ke bawah tidak jatuh ke 39.
	db.Create(&models.Capsule{
		OwnerID: &user.ID, Title: "a", Description: "a",
		ReleaseDate: now.Add(40*24*time.Hour + time.Hour), Status: models.CapsuleStatusLocked,
	})
	db.Create(&models.Capsule{
		OwnerID: &user.ID, Title: "b", Description: "b",
		ReleaseDate: now.Add(10 * 24 * time.Hour), Status: models.CapsuleStatusDraft,
	})
	db.Create(&models.Capsule{
		OwnerID: &user.ID, Title: "c", Description: "c",
		ReleaseDate: now.Add(-time.Hour), Status: models.CapsuleStatusReleased,
	})

	service := NewBadgeService(db)
	stats, err := service.ComputeStats(user.ID)
	assert.NoError(t, err)

	assert.Equal(t, 3, stats.TotalCapsules)
	assert.Equal(t, 1, stats.ReleasedCapsules)
	assert.Equal(t, 40, stats.LongestFutureWaitDays)
	// Ketiganya dibuat di tanggal UTC yang sama
	assert.Equal(t, 3, stats.MaxCapsulesInOneDay)
}

func TestComputeStatsIgnoresReleasedWait(t *testing.T) {
	db := setupMonitorTestDB(t, "badge_stats_released")
	user := seedUser(t, db, "released@example.com")

	// Released capsules tidak ikut longestFutureWaitDays
	db.Create(&models.Capsule{
		OwnerID: &user.ID, Title: "old", Description: "old",
		ReleaseDate: time.Now().Add(400 * 24 * time.Hour), Status: models.CapsuleStatusReleased,
	})

	service := NewBadgeService(db)
	stats, err := service.ComputeStats(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.LongestFutureWaitDays)
	assert.Equal(t, 1, stats.ReleasedCapsules)
}

func TestComputeStatsPastReleaseDateClampedToZero(t *testing.T) {
	db := setupMonitorTestDB(t, "badge_stats_clamp")
	user := seedUser(t, db, "clamp@example.com")

	// ReleaseDate sebelum CreatedAt tidak boleh menghasilkan nilai negatif
	db.Create(&models.Capsule{
		OwnerID: &user.ID, Title: "past", Description: "past",
		ReleaseDate: time.Now().Add(-48 * time.Hour), Status: models.CapsuleStatusLocked,
	})

	service := NewBadgeService(db)
	stats, err := service.ComputeStats(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.LongestFutureWaitDays)
}
