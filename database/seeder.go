package database

import (
	"embed"
	"fmt"
	"os"

	"github.com/UnicornXOS/bl1nk-web-portal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed/*.yaml
var seedFS embed.FS

// SeedAgents fills the agents table from YAML when it is empty.
// An empty path uses the bundled sample catalog.
func SeedAgents(db *gorm.DB, path string) error {
	var count int64
	if err := db.Model(&models.Agent{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var inputs []models.AgentInput
	if err := readSeed(path, "seed/agents.yaml", &inputs); err != nil {
		return err
	}
	agents := make([]models.Agent, 0, len(inputs))
	for i, in := range inputs {
		if err := models.Validate(in); err != nil {
			return fmt.Errorf("agent seed #%d (%s): %w", i, in.Name, err)
		}
		agents = append(agents, in.ToAgent())
	}
	if len(agents) == 0 {
		return nil
	}
	return db.Create(&agents).Error
}

// SeedAgentProfiles fills agent_profiles and agent_skills when empty.
func SeedAgentProfiles(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.AgentProfile{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var profiles []models.AgentProfile
	if err := readSeed("", "seed/agent_profiles.yaml", &profiles); err != nil {
		return err
	}
	for i := range profiles {
		for j := range profiles[i].Skills {
			if profiles[i].Skills[j].ProficiencyLevel == "" {
				profiles[i].Skills[j].ProficiencyLevel = "intermediate"
			}
		}
	}
	if len(profiles) == 0 {
		return nil
	}
	return db.Create(&profiles).Error
}

func readSeed(path, embedded string, out interface{}) error {
	var (
		raw []byte
		err error
	)
	if path != "" {
		raw, err = os.ReadFile(path)
	} else {
		raw, err = seedFS.ReadFile(embedded)
	}
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}
	return nil
}
