package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chronocapsule/chrono-capsule/badges"
	"github.com/chronocapsule/chrono-capsule/models"
	"github.com/chronocapsule/chrono-capsule/services"
	"github.com/chronocapsule/chrono-capsule/utils"
)

type BadgeController struct {
	DB           *gorm.DB
	BadgeService *services.BadgeService
}

func NewBadgeController(db *gorm.DB, badgeService *services.BadgeService) *BadgeController {
	return &BadgeController{DB: db, BadgeService: badgeService}
}

// GetMyBadges -> definisi lengkap dari badge yang sudah dimiliki user
func (bc *BadgeController) GetMyBadges(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := bc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	details := make([]badges.Badge, 0, len(user.Badges))
	for _, id := range user.Badges {
		if badge, ok := badges.Find(id); ok {
			details = append(details, badge)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "My badges", details)
}

// CheckBadges -> evaluasi eksplisit; error di path ini diteruskan ke caller
func (bc *BadgeController) CheckBadges(c *gin.Context) {
	userID := c.GetUint("user_id")

	result, err := bc.BadgeService.EvaluateAndAward(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to check badges"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, result.Message, result)
}

// GetAllBadges -> seluruh katalog
func (bc *BadgeController) GetAllBadges(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "All badges", badges.All())
}

// GetStats -> snapshot UserStats yang dipakai rule engine
func (bc *BadgeController) GetStats(c *gin.Context) {
	userID := c.GetUint("user_id")

	stats, err := bc.BadgeService.ComputeStats(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Capsule stats", stats)
}
