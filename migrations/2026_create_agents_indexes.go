package migrations

import "gorm.io/gorm"

// CreateAgentsIndexes supports the public listing (is_public filter, download_count ordering).
func CreateAgentsIndexes(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_agents_public_downloads
		ON agents(is_public, download_count DESC)
	`).Error
}
