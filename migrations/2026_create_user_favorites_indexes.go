package migrations

import "gorm.io/gorm"

// CreateUserFavoritesIndexes adds the indexes AutoMigrate does not cover.
// The (user_id, content_id) unique index backs the ON CONFLICT insert in the favorites store.
func CreateUserFavoritesIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_user_favorites_user_content ON user_favorites(user_id, content_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_favorites_created_at ON user_favorites(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_user_favorites_user_sort ON user_favorites(user_id, sort_index)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
