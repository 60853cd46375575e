package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/chronocapsule/chrono-capsule/events"
	"github.com/chronocapsule/chrono-capsule/models"
	"github.com/chronocapsule/chrono-capsule/utils"
)

// CapsuleMonitor menjalankan sweep periodik untuk membuka kapsul yang
// release date-nya sudah lewat. Semua sweep berjalan di satu goroutine
// sehingga tidak pernah ada dua sweep bersamaan.
type CapsuleMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewCapsuleMonitor(db *gorm.DB) *CapsuleMonitor {
	return &CapsuleMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 60 * time.Second,
	}
}

func (cm *CapsuleMonitor) Start() {
	go func() {
		// Sweep pertama langsung saat start
		cm.RunUnlockSweep()

		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.RunUnlockSweep()
			case <-cm.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Println("Capsule monitor started")
}

func (cm *CapsuleMonitor) Stop() {
	close(cm.StopChan)
}

// RunUnlockSweep mencari semua kapsul draft/locked yang sudah jatuh
// tempo dan memindahkannya ke released. Error per kapsul dicatat dan
// tidak menghentikan kapsul lain di sweep yang sama.
func (cm *CapsuleMonitor) RunUnlockSweep() {
	now := time.Now()

	var capsules []models.Capsule
	if err := cm.DB.
		Where("release_date <= ? AND status IN ?", now, []string{models.CapsuleStatusDraft, models.CapsuleStatusLocked}).
		Find(&capsules).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching overdue capsules: %v", err)
		return
	}

	if len(capsules) > 0 {
		utils.InfoLogger.Printf("Found %d capsule(s) to unlock", len(capsules))
	}

	for _, capsule := range capsules {
		if err := cm.releaseCapsule(capsule); err != nil {
			utils.ErrorLogger.Printf("Error releasing capsule %d: %v", capsule.ID, err)
		}
	}
}

func (cm *CapsuleMonitor) releaseCapsule(capsule models.Capsule) error {
	// Kapsul tanpa owner adalah anomali data, jangan di-release
	if capsule.OwnerID == nil {
		utils.ErrorLogger.Printf("Skipping capsule %d (%q) - no owner found", capsule.ID, capsule.Title)
		return nil
	}

	// Update status saja, bukan full save, supaya field lain tidak
	// ikut tervalidasi ulang
	if err := cm.DB.Model(&models.Capsule{}).
		Where("id = ?", capsule.ID).
		Update("status", models.CapsuleStatusReleased).Error; err != nil {
		return err
	}

	capsule.Status = models.CapsuleStatusReleased
	events.BroadcastCapsuleReleased(capsule)

	return cm.notifyUnlocked(capsule)
}

// notifyUnlocked membuat notifikasi capsule_unlocked maksimal satu kali
// per (capsule, owner), berapa kali pun sweep melihat kapsul yang sama.
func (cm *CapsuleMonitor) notifyUnlocked(capsule models.Capsule) error {
	var existing models.Notification
	err := cm.DB.
		Where("capsule_id = ? AND user_id = ? AND type = ?", capsule.ID, *capsule.OwnerID, models.NotificationTypeCapsuleUnlocked).
		First(&existing).Error
	if err == nil {
		// Sudah pernah dinotifikasi
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	capsuleID := capsule.ID
	notif := models.Notification{
		UserID:    *capsule.OwnerID,
		CapsuleID: &capsuleID,
		Message:   fmt.Sprintf("Your capsule %q has been unlocked! 🎉", capsule.Title),
		Type:      models.NotificationTypeCapsuleUnlocked,
		IsRead:    false,
	}

	if err := cm.DB.Create(&notif).Error; err != nil {
		// Index unik (capsule_id, user_id, type) bisa menolak create
		// kalau sweep lain sempat menang race; itu berarti notifikasi
		// sudah ada dan aman diabaikan.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	utils.InfoLogger.Printf("Capsule %d unlocked, notification sent to user %d", capsule.ID, notif.UserID)
	events.BroadcastNotificationCreated(notif)
	return nil
}
