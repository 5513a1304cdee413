package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserPreference struct {
	ID                   uint                        `json:"id" gorm:"primaryKey"`
	UserID               uint                        `json:"userId" gorm:"not null;uniqueIndex"`
	Theme                string                      `json:"theme" gorm:"type:varchar(10);not null;default:dark"`
	Language             string                      `json:"language" gorm:"type:varchar(10);not null;default:en"`
	NotificationsEnabled bool                        `json:"notificationsEnabled" gorm:"not null"`
	EmailNotifications   bool                        `json:"emailNotifications" gorm:"not null"`
	DashboardLayout      string                      `json:"dashboardLayout" gorm:"type:varchar(20);not null;default:grid"`
	ItemsPerPage         int                         `json:"itemsPerPage" gorm:"not null;default:20"`
	EnabledSources       datatypes.JSONSlice[string] `json:"enabledSources"`
	AutoRefresh          bool                        `json:"autoRefresh" gorm:"not null;default:false"`
	AutoRefreshInterval  int                         `json:"autoRefreshInterval" gorm:"not null;default:300000"`
	CreatedAt            time.Time                   `json:"createdAt"`
	UpdatedAt            time.Time                   `json:"updatedAt"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *UserPreference) AfterFind(tx *gorm.DB) error {
	if p.EnabledSources == nil {
		p.EnabledSources = datatypes.JSONSlice[string]{}
	}
	return nil
}

// DefaultPreference is what a user sees before saving anything.
func DefaultPreference(userID uint) UserPreference {
	return UserPreference{
		UserID:               userID,
		Theme:                "dark",
		Language:             "en",
		NotificationsEnabled: true,
		EmailNotifications:   true,
		DashboardLayout:      "grid",
		ItemsPerPage:         20,
		EnabledSources:       datatypes.JSONSlice[string]{"github", "gitbook", "notion"},
		AutoRefresh:          false,
		AutoRefreshInterval:  300000,
	}
}

// PreferenceUpdate is a partial update; nil fields are left unchanged.
type PreferenceUpdate struct {
	Theme                *string  `json:"theme" binding:"omitempty,oneof=light dark"`
	Language             *string  `json:"language" binding:"omitempty,min=2,max=10"`
	NotificationsEnabled *bool    `json:"notificationsEnabled"`
	EmailNotifications   *bool    `json:"emailNotifications"`
	DashboardLayout      *string  `json:"dashboardLayout" binding:"omitempty,oneof=grid list kanban"`
	ItemsPerPage         *int     `json:"itemsPerPage" binding:"omitempty,min=1,max=100"`
	EnabledSources       []string `json:"enabledSources" binding:"omitempty,dive,oneof=github gitbook notion craft"`
	AutoRefresh          *bool    `json:"autoRefresh"`
	AutoRefreshInterval  *int     `json:"autoRefreshInterval" binding:"omitempty,min=1"`
}
