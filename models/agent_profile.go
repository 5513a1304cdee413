package models

import "time"

type AgentProfile struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	AgentProfile string       `json:"agentProfile" yaml:"agentProfile" gorm:"type:varchar(255);not null"`
	AgentID      string       `json:"agentId" yaml:"agentId" gorm:"type:varchar(255);not null;uniqueIndex"`
	Track        string       `json:"track" yaml:"track" gorm:"type:varchar(100);not null;index"`
	Description  *string      `json:"description" yaml:"description" gorm:"type:text"`
	Emoji        *string      `json:"emoji" yaml:"emoji" gorm:"type:varchar(10)"`
	Skills       []AgentSkill `json:"skills" yaml:"skills" gorm:"foreignKey:AgentProfileID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time    `json:"createdAt" yaml:"-"`
	UpdatedAt    time.Time    `json:"updatedAt" yaml:"-"`
}

type AgentSkill struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	AgentProfileID   uint      `json:"agentProfileId" yaml:"-" gorm:"not null;index"`
	SkillID          string    `json:"skillId" yaml:"skillId" gorm:"type:varchar(255);not null"`
	SkillName        string    `json:"skillName" yaml:"skillName" gorm:"type:varchar(255);not null"`
	SkillDescription *string   `json:"skillDescription" yaml:"skillDescription" gorm:"type:text"`
	Category         *string   `json:"category" yaml:"category" gorm:"type:varchar(100)"`
	ProficiencyLevel string    `json:"proficiencyLevel" yaml:"proficiencyLevel" gorm:"type:varchar(20);not null;default:intermediate"`
	CreatedAt        time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt        time.Time `json:"updatedAt" yaml:"-"`
}

// Tracks and proficiency levels accepted by the catalog.
var (
	AgentTracks       = []string{"Builder", "Analyzer", "Designer", "Optimizer", "Integrator"}
	ProficiencyLevels = []string{"beginner", "intermediate", "advanced", "expert"}
)
