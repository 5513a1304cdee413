package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Favorite content types. "other" covers anything that is not a known source.
const (
	ContentTypeGitHub  = "github"
	ContentTypeGitBook = "gitbook"
	ContentTypeNotion  = "notion"
	ContentTypeOther   = "other"
)

// UserFavorite is one saved content item, unique per (user, content id).
type UserFavorite struct {
	ID                 uint                        `json:"id" gorm:"primaryKey"`
	UserID             uint                        `json:"userId" gorm:"not null;index;uniqueIndex:uniq_user_favorites_user_content,priority:1"`
	ContentID          string                      `json:"contentId" gorm:"type:varchar(255);not null;uniqueIndex:uniq_user_favorites_user_content,priority:2"`
	ContentType        string                      `json:"contentType" gorm:"type:varchar(20);not null;default:other;index"`
	ContentTitle       string                      `json:"contentTitle" gorm:"type:text;not null"`
	ContentDescription *string                     `json:"contentDescription" gorm:"type:text"`
	ContentURL         string                      `json:"contentUrl" gorm:"column:content_url;type:text;not null"`
	ContentImage       *string                     `json:"contentImage" gorm:"type:text"`
	Tags               datatypes.JSONSlice[string] `json:"tags"`
	SortIndex          int                         `json:"sortIndex" gorm:"not null;default:0"`
	CreatedAt          time.Time                   `json:"createdAt"`
	UpdatedAt          time.Time                   `json:"updatedAt"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (f *UserFavorite) AfterFind(tx *gorm.DB) error {
	if f.Tags == nil {
		f.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}

// FavoriteInput is the payload for adding or toggling a favorite.
type FavoriteInput struct {
	ContentID          string   `json:"contentId" binding:"required,max=255"`
	ContentType        string   `json:"contentType" binding:"required,oneof=github gitbook notion other"`
	ContentTitle       string   `json:"contentTitle" binding:"required"`
	ContentDescription *string  `json:"contentDescription"`
	ContentURL         string   `json:"contentUrl" binding:"required,url"`
	ContentImage       *string  `json:"contentImage" binding:"omitempty,url"`
	Tags               []string `json:"tags" binding:"omitempty,dive,max=50"`
}

// FavoriteListQuery bounds a favorites listing. A nil Limit means the default; an
// explicit 0 is rejected.
type FavoriteListQuery struct {
	ContentType string `form:"contentType" binding:"omitempty,oneof=github gitbook notion other"`
	Limit       *int   `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset      int    `form:"offset" binding:"omitempty,min=0"`
}

// FavoriteDetailsInput updates the mutable fields of a saved favorite.
type FavoriteDetailsInput struct {
	ContentDescription *string  `json:"contentDescription"`
	ContentImage       *string  `json:"contentImage" binding:"omitempty,url"`
	Tags               []string `json:"tags" binding:"omitempty,dive,max=50"`
}
