package models

import (
	"time"
)

const (
	NotificationTypeCapsuleUnlocked = "capsule_unlocked"
	NotificationTypeCapsuleReminder = "capsule_reminder"
	NotificationTypeAchievement     = "achievement"
	NotificationTypeSystem          = "system"
)

type Notification struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	UserID    uint     `gorm:"not null;index:idx_capsule_user_type,unique" json:"user_id"`
	User      User     `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CapsuleID *uint    `gorm:"index:idx_capsule_user_type,unique" json:"capsule_id,omitempty"`
	Capsule   *Capsule `gorm:"foreignKey:CapsuleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"capsule,omitempty"`
	Message   string   `gorm:"type:text;not null" json:"message"`
	// Index unik (capsule_id, user_id, type) menutup race check-then-insert
	// pada notifikasi unlock; baris dengan capsule_id NULL tidak terkena.
	Type      string    `gorm:"type:varchar(20);not null;default:'capsule_unlocked';index:idx_capsule_user_type,unique" json:"type"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
