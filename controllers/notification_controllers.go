package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chronocapsule/chrono-capsule/models"
	"github.com/chronocapsule/chrono-capsule/utils"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetNotifications -> 20 notifikasi terakhir milik user
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")

	var notifs []models.Notification
	if err := nc.DB.
		Preload("Capsule").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(20).
		Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notifications", notifs)
}

// GetUnreadCount
func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint("user_id")

	var count int64
	if err := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Unread count", gin.H{"count": count})
}

// MarkAsRead
func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	notif, ok := nc.findOwnedNotification(c)
	if !ok {
		return
	}

	if err := nc.DB.Model(&notif).Update("is_read", true).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notif)
}

// MarkAllAsRead
func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", nil)
}

// DeleteNotification
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	notif, ok := nc.findOwnedNotification(c)
	if !ok {
		return
	}

	if err := nc.DB.Delete(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": notif.ID})
}

func (nc *NotificationController) findOwnedNotification(c *gin.Context) (models.Notification, bool) {
	idStr := c.Param("notif_id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification id"))
		return models.Notification{}, false
	}

	userID := c.GetUint("user_id")

	var notif models.Notification
	if err := nc.DB.
		Where("id = ? AND user_id = ?", id, userID).
		First(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("notification not found"))
		return models.Notification{}, false
	}

	return notif, true
}
