package models

import "time"

type User struct {
	BaseModel
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	Role             UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status           UserStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	ProfileCompleted bool       `gorm:"default:false" json:"profile_completed"`
	LastActiveAt     *time.Time `json:"last_active_at,omitempty"`

	// Relations
	Profile       *Profile       `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
