package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OpenID       string    `json:"openId" gorm:"type:varchar(64);not null;uniqueIndex"`
	Name         *string   `json:"name"`
	Email        *string   `json:"email" gorm:"type:varchar(320)"`
	LoginMethod  *string   `json:"loginMethod" gorm:"type:varchar(64)"`
	Role         string    `json:"role" gorm:"type:varchar(10);not null;default:user"`
	LastSignedIn time.Time `json:"lastSignedIn"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
