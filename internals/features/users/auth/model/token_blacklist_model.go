package model

import (
	"time"

	"gorm.io/gorm"
)

// TokenBlacklistModel menampung HMAC access token yang di-logout
// sebelum masa berlakunya habis. Setelah expired_at lewat, baris
// boleh dibersihkan scheduler.
type TokenBlacklistModel struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Token     string         `gorm:"type:text;not null;unique" json:"token"`
	ExpiredAt time.Time      `json:"expired_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TokenBlacklistModel) TableName() string { return "token_blacklist" }
