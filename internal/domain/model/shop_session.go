package model

import "time"

// アプリをインストールしたショップのオフラインセッション。
// 行がない（またはIsActive=false）ショップのWebhookは処理しない。
type ShopSession struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Shop        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"shop"`
	AccessToken string    `gorm:"type:varchar(255);not null;default:''" json:"-"`
	Scope       string    `gorm:"type:varchar(255);not null;default:''" json:"scope"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
