package models

import "time"

type APIKey struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"userId" gorm:"not null;index"`
	Provider     string     `json:"provider" gorm:"type:varchar(50);not null"`
	KeyName      string     `json:"keyName" gorm:"type:varchar(255);not null"`
	EncryptedKey string     `json:"-" gorm:"type:text;not null"`
	KeyHint      string     `json:"keyHint" gorm:"type:varchar(16)"`
	IsActive     bool       `json:"isActive" gorm:"not null"`
	LastUsed     *time.Time `json:"lastUsed"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (APIKey) TableName() string {
	return "api_keys"
}

type APIKeyInput struct {
	Provider string `json:"provider" binding:"required,oneof=github notion bedrock vercel aws other"`
	KeyName  string `json:"keyName" binding:"required,max=255"`
	Key      string `json:"key" binding:"required"`
}
