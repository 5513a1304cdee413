package apikeys

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

var (
	ErrKeyNotFound  = errors.New("api key not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Store keeps user API keys sealed at rest. Plaintext never leaves the store except
// through ActiveKey.
type Store struct {
	db     *gorm.DB
	sealer *utils.Sealer
	now    func() time.Time
}

func NewStore(db *gorm.DB, sealer *utils.Sealer) *Store {
	return &Store{db: db, sealer: sealer, now: time.Now}
}

func (s *Store) Create(ctx context.Context, userID uint, in models.APIKeyInput) (*models.APIKey, error) {
	if err := models.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	sealed, err := s.sealer.Seal(in.Key)
	if err != nil {
		return nil, fmt.Errorf("seal api key: %w", err)
	}
	key := models.APIKey{
		UserID:       userID,
		Provider:     in.Provider,
		KeyName:      in.KeyName,
		EncryptedKey: sealed,
		KeyHint:      utils.MaskSecret(in.Key),
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Omit("User").Create(&key).Error; err != nil {
		return nil, fmt.Errorf("create api key: %w", err)
	}
	return &key, nil
}

func (s *Store) List(ctx context.Context, userID uint) ([]models.APIKey, error) {
	keys := []models.APIKey{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Find(&keys).Error
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	return keys, nil
}

func (s *Store) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.APIKey{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete api key: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrKeyNotFound
	}
	return nil
}

func (s *Store) SetActive(ctx context.Context, userID, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("update api key: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrKeyNotFound
	}
	return nil
}

// ActiveKey returns the newest active key for provider in plaintext and stamps its last use.
func (s *Store) ActiveKey(ctx context.Context, userID uint, provider string) (string, error) {
	var key models.APIKey
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND provider = ? AND is_active = ?", userID, provider, true).
		Order("created_at DESC").Order("id DESC").
		First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find api key: %w", err)
	}
	plain, err := s.sealer.Open(key.EncryptedKey)
	if err != nil {
		return "", fmt.Errorf("open api key %d: %w", key.ID, err)
	}
	if err := s.db.WithContext(ctx).Model(&key).UpdateColumn("last_used", s.now()).Error; err != nil {
		return "", fmt.Errorf("stamp api key: %w", err)
	}
	return plain, nil
}
