package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AgentTool describes one tool an agent exposes.
type AgentTool struct {
	Name        string `json:"name" yaml:"name" binding:"required"`
	Description string `json:"description" yaml:"description"`
}

// Agent is a catalog entry for a downloadable AI agent.
type Agent struct {
	ID               uint                           `json:"id" gorm:"primaryKey"`
	Name             string                         `json:"name" gorm:"type:varchar(255);not null;index"`
	Version          string                         `json:"version" gorm:"type:varchar(50);not null;default:1.0.0"`
	Description      *string                        `json:"description" gorm:"type:text"`
	Language         string                         `json:"language" gorm:"type:varchar(10);not null;default:ts;index"`
	Tools            datatypes.JSONSlice[AgentTool] `json:"tools"`
	Endpoint         string                         `json:"endpoint" gorm:"type:varchar(255);not null"`
	Dependencies     datatypes.JSONSlice[string]    `json:"dependencies"`
	AutoLoad         bool                           `json:"autoLoad" gorm:"not null"`
	Author           *string                        `json:"author" gorm:"type:varchar(255)"`
	AuthorURL        *string                        `json:"authorUrl" gorm:"column:author_url;type:varchar(500)"`
	RepositoryURL    *string                        `json:"repositoryUrl" gorm:"column:repository_url;type:varchar(500)"`
	DocumentationURL *string                        `json:"documentationUrl" gorm:"column:documentation_url;type:varchar(500)"`
	Tags             datatypes.JSONSlice[string]    `json:"tags"`
	IsPublic         bool                           `json:"isPublic" gorm:"not null;index"`
	DownloadCount    int                            `json:"downloadCount" gorm:"not null;default:0;check:download_count >= 0"`
	Rating           int                            `json:"rating" gorm:"not null;default:0;check:rating BETWEEN 0 AND 5"`
	CreatedAt        time.Time                      `json:"createdAt"`
	UpdatedAt        time.Time                      `json:"updatedAt"`
}

func (a *Agent) AfterFind(tx *gorm.DB) error {
	if a.Tools == nil {
		a.Tools = datatypes.JSONSlice[AgentTool]{}
	}
	if a.Dependencies == nil {
		a.Dependencies = datatypes.JSONSlice[string]{}
	}
	if a.Tags == nil {
		a.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}

// AgentInput is the create payload. Pointer fields distinguish "unset" for defaults.
type AgentInput struct {
	Name             string      `json:"name" yaml:"name" binding:"required,min=1,max=255"`
	Version          string      `json:"version" yaml:"version" binding:"omitempty,max=50"`
	Description      *string     `json:"description" yaml:"description"`
	Language         string      `json:"language" yaml:"language" binding:"omitempty,oneof=js ts python uv json yaml"`
	Tools            []AgentTool `json:"tools" yaml:"tools" binding:"omitempty,dive"`
	Endpoint         string      `json:"endpoint" yaml:"endpoint" binding:"required,min=1,max=255"`
	Dependencies     []string    `json:"dependencies" yaml:"dependencies"`
	AutoLoad         bool        `json:"autoLoad" yaml:"autoLoad"`
	Author           *string     `json:"author" yaml:"author"`
	AuthorURL        *string     `json:"authorUrl" yaml:"authorUrl" binding:"omitempty,url"`
	RepositoryURL    *string     `json:"repositoryUrl" yaml:"repositoryUrl" binding:"omitempty,url"`
	DocumentationURL *string     `json:"documentationUrl" yaml:"documentationUrl" binding:"omitempty,url"`
	Tags             []string    `json:"tags" yaml:"tags"`
	IsPublic         *bool       `json:"isPublic" yaml:"isPublic"`
	// Seed-only fields; ignored on the HTTP create path.
	DownloadCount int `json:"-" yaml:"downloadCount"`
	Rating        int `json:"-" yaml:"rating"`
}

// AgentUpdate is a partial update; nil fields are left unchanged.
type AgentUpdate struct {
	Name             *string     `json:"name" binding:"omitempty,min=1,max=255"`
	Version          *string     `json:"version" binding:"omitempty,max=50"`
	Description      *string     `json:"description"`
	Language         *string     `json:"language" binding:"omitempty,oneof=js ts python uv json yaml"`
	Tools            []AgentTool `json:"tools" binding:"omitempty,dive"`
	Endpoint         *string     `json:"endpoint" binding:"omitempty,min=1,max=255"`
	Dependencies     []string    `json:"dependencies"`
	AutoLoad         *bool       `json:"autoLoad"`
	Author           *string     `json:"author"`
	AuthorURL        *string     `json:"authorUrl" binding:"omitempty,url"`
	RepositoryURL    *string     `json:"repositoryUrl" binding:"omitempty,url"`
	DocumentationURL *string     `json:"documentationUrl" binding:"omitempty,url"`
	Tags             []string    `json:"tags"`
	IsPublic         *bool       `json:"isPublic"`
}

// AgentListQuery pages through public agents. Zero Page/Limit mean the defaults.
type AgentListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Language string `form:"language" binding:"omitempty,oneof=js ts python uv json yaml"`
}

// ToAgent applies catalog defaults: version 1.0.0, language ts, public.
func (in AgentInput) ToAgent() Agent {
	a := Agent{
		Name:             in.Name,
		Version:          in.Version,
		Description:      in.Description,
		Language:         in.Language,
		Tools:            datatypes.JSONSlice[AgentTool](in.Tools),
		Endpoint:         in.Endpoint,
		Dependencies:     datatypes.JSONSlice[string](in.Dependencies),
		AutoLoad:         in.AutoLoad,
		Author:           in.Author,
		AuthorURL:        in.AuthorURL,
		RepositoryURL:    in.RepositoryURL,
		DocumentationURL: in.DocumentationURL,
		Tags:             datatypes.JSONSlice[string](in.Tags),
		IsPublic:         true,
		DownloadCount:    in.DownloadCount,
		Rating:           in.Rating,
	}
	if a.Version == "" {
		a.Version = "1.0.0"
	}
	if a.Language == "" {
		a.Language = "ts"
	}
	if in.IsPublic != nil {
		a.IsPublic = *in.IsPublic
	}
	if a.Tools == nil {
		a.Tools = datatypes.JSONSlice[AgentTool]{}
	}
	if a.Dependencies == nil {
		a.Dependencies = datatypes.JSONSlice[string]{}
	}
	if a.Tags == nil {
		a.Tags = datatypes.JSONSlice[string]{}
	}
	return a
}
