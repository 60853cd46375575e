package models

import "time"

const (
	CapsuleStatusDraft    = "draft"
	CapsuleStatusLocked   = "locked"
	CapsuleStatusReleased = "released"
)

type Capsule struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OwnerID     *uint      `gorm:"index" json:"owner_id,omitempty"`
	Owner       *User      `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Title       string     `gorm:"type:varchar(255); not null" json:"title"`
	Description string     `gorm:"type:text; not null" json:"description"`
	ReleaseDate time.Time  `gorm:"not null;index" json:"release_date"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Files       StringList `gorm:"type:text" json:"files"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

// IsReleased -> kapsul yang sudah released tidak boleh diubah lagi
func (c *Capsule) IsReleased() bool {
	return c.Status == CapsuleStatusReleased
}
