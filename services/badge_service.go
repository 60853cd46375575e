package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/chronocapsule/chrono-capsule/badges"
	"github.com/chronocapsule/chrono-capsule/events"
	"github.com/chronocapsule/chrono-capsule/models"
	"github.com/chronocapsule/chrono-capsule/utils"
)

var ErrUserNotFound = errors.New("user not found")

// BadgeService menghitung statistik kapsul seorang user, menjalankan
// rule engine, dan menyimpan badge baru beserta notifikasinya.
type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// AwardResult adalah hasil evaluasi badge untuk satu user
type AwardResult struct {
	NewBadges []badges.Badge `json:"newBadges"`
	Message   string         `json:"message"`
}

// EvaluateAndAward memuat seluruh kapsul user, menghitung stats,
// lalu memberi badge yang belum dimiliki. Memanggil dua kali berturut-
// turut tanpa kapsul baru menghasilkan daftar kosong di panggilan kedua.
func (bs *BadgeService) EvaluateAndAward(userID uint) (*AwardResult, error) {
	stats, err := bs.ComputeStats(userID)
	if err != nil {
		return nil, err
	}

	earnedIDs := badges.CheckBadges(stats)

	var user models.User
	if err := bs.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	newIDs := make([]string, 0)
	for _, id := range earnedIDs {
		if !user.Badges.Contains(id) {
			newIDs = append(newIDs, id)
		}
	}

	if len(newIDs) == 0 {
		return &AwardResult{
			NewBadges: []badges.Badge{},
			Message:   "No new badges earned",
		}, nil
	}

	user.Badges = append(user.Badges, newIDs...)
	if err := bs.DB.Model(&user).Update("badges", user.Badges).Error; err != nil {
		return nil, err
	}

	newBadges := make([]badges.Badge, 0, len(newIDs))
	for _, id := range newIDs {
		badge, ok := badges.Find(id)
		if !ok {
			continue
		}
		newBadges = append(newBadges, badge)

		notif := models.Notification{
			UserID:  userID,
			Message: fmt.Sprintf("🎉 Achievement Unlocked: %s! %s", badge.Name, badge.Description),
			Type:    models.NotificationTypeAchievement,
			IsRead:  false,
		}
		if err := bs.DB.Create(&notif).Error; err != nil {
			utils.ErrorLogger.Printf("Error creating achievement notification for user %d: %v", userID, err)
			continue
		}
		events.BroadcastNotificationCreated(notif)
	}

	utils.InfoLogger.Printf("User %d earned %d new badge(s)", userID, len(newBadges))
	events.BroadcastBadgeAwarded(userID, newBadges)

	return &AwardResult{
		NewBadges: newBadges,
		Message:   fmt.Sprintf("Congratulations! You earned %d new badge(s)!", len(newBadges)),
	}, nil
}

// ComputeStats memindai seluruh kapsul milik user sekali jalan dan
// mengembalikan snapshot agregat untuk rule engine.
func (bs *BadgeService) ComputeStats(userID uint) (badges.UserStats, error) {
	var capsules []models.Capsule
	if err := bs.DB.Where("owner_id = ?", userID).Find(&capsules).Error; err != nil {
		return badges.UserStats{}, err
	}

	stats := badges.UserStats{
		TotalCapsules: len(capsules),
	}

	perDay := make(map[string]int)
	for _, capsule := range capsules {
		if capsule.Status == models.CapsuleStatusReleased {
			stats.ReleasedCapsules++
		}

		if capsule.Status == models.CapsuleStatusDraft || capsule.Status == models.CapsuleStatusLocked {
			if days := futureWaitDays(capsule); days > stats.LongestFutureWaitDays {
				stats.LongestFutureWaitDays = days
			}
		}

		perDay[creationDay(capsule)]++
	}

	for _, count := range perDay {
		if count > stats.MaxCapsulesInOneDay {
			stats.MaxCapsulesInOneDay = count
		}
	}

	return stats, nil
}

// futureWaitDays memotong durasi releaseDate-createdAt ke hari utuh;
// durasi negatif atau di bawah sehari dihitung 0.
func futureWaitDays(capsule models.Capsule) int {
	wait := capsule.ReleaseDate.Sub(capsule.CreatedAt)
	if wait <= 0 {
		return 0
	}
	return int(wait / (24 * time.Hour))
}

// creationDay mengelompokkan kapsul per tanggal kalender UTC, bukan
// jendela 24 jam berjalan.
func creationDay(capsule models.Capsule) string {
	return capsule.CreatedAt.UTC().Format("2006-01-02")
}
