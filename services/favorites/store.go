package favorites

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

var (
	ErrAlreadyFavorited = errors.New("Already added to favorites")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrInvalidInput     = errors.New("invalid input")
)

// Store keeps per-user favorites. Every call is scoped to the given user id.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Add saves a favorite. A second add of the same content id returns ErrAlreadyFavorited
// and leaves the existing row untouched.
func (s *Store) Add(ctx context.Context, userID uint, in models.FavoriteInput) (*models.UserFavorite, error) {
	if err := models.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	tags := datatypes.JSONSlice[string](in.Tags)
	if tags == nil {
		tags = datatypes.JSONSlice[string]{}
	}

	fav := models.UserFavorite{
		UserID:             userID,
		ContentID:          in.ContentID,
		ContentType:        in.ContentType,
		ContentTitle:       in.ContentTitle,
		ContentDescription: in.ContentDescription,
		ContentURL:         in.ContentURL,
		ContentImage:       in.ContentImage,
		Tags:               tags,
	}
	res := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
			DoNothing: true,
		}).
		Create(&fav)
	if res.Error != nil {
		return nil, fmt.Errorf("add favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyFavorited
	}
	return &fav, nil
}

// Remove deletes the favorite if present. Removing an absent favorite is not an error.
func (s *Store) Remove(ctx context.Context, userID uint, contentID string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Delete(&models.UserFavorite{}).Error
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// Toggle flips membership of in.ContentID and returns whether it is now favorited.
func (s *Store) Toggle(ctx context.Context, userID uint, in models.FavoriteInput) (bool, error) {
	ids, err := s.IDs(ctx, userID)
	if err != nil {
		return false, err
	}
	if ids[in.ContentID] {
		return false, s.Remove(ctx, userID, in.ContentID)
	}
	if _, err := s.Add(ctx, userID, in); err != nil {
		if errors.Is(err, ErrAlreadyFavorited) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// List returns a page of favorites ordered by sort index, newest first within an index.
func (s *Store) List(ctx context.Context, userID uint, q models.FavoriteListQuery) ([]models.UserFavorite, error) {
	if err := models.Validate(q); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	limit := DefaultLimit
	if q.Limit != nil {
		limit = *q.Limit
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if q.ContentType != "" {
		query = query.Where("content_type = ?", q.ContentType)
	}
	favs := []models.UserFavorite{}
	err := query.Order("sort_index ASC").Order("created_at DESC").Order("id DESC").
		Offset(q.Offset).Limit(limit).Find(&favs).Error
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favs, nil
}

// IDs returns the set of favorited content ids.
func (s *Store) IDs(ctx context.Context, userID uint) (map[string]bool, error) {
	var contentIDs []string
	err := s.db.WithContext(ctx).Model(&models.UserFavorite{}).
		Where("user_id = ?", userID).
		Pluck("content_id", &contentIDs).Error
	if err != nil {
		return nil, fmt.Errorf("favorite ids: %w", err)
	}
	out := make(map[string]bool, len(contentIDs))
	for _, id := range contentIDs {
		out[id] = true
	}
	return out, nil
}

// OrderedIDs returns favorited content ids in list order.
func (s *Store) OrderedIDs(ctx context.Context, userID uint) ([]string, error) {
	contentIDs := []string{}
	err := s.db.WithContext(ctx).Model(&models.UserFavorite{}).
		Where("user_id = ?", userID).
		Order("sort_index ASC").Order("created_at DESC").Order("id DESC").
		Pluck("content_id", &contentIDs).Error
	if err != nil {
		return nil, fmt.Errorf("favorite ids: %w", err)
	}
	return contentIDs, nil
}

func (s *Store) IsFavorited(ctx context.Context, userID uint, contentID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.UserFavorite{}).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("favorite status: %w", err)
	}
	return n > 0, nil
}

func (s *Store) Count(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.UserFavorite{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return n, nil
}

// Reorder stores sort indexes following contentIDs. Ids the user has not favorited are ignored.
func (s *Store) Reorder(ctx context.Context, userID uint, contentIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range contentIDs {
			err := tx.Model(&models.UserFavorite{}).
				Where("user_id = ? AND content_id = ?", userID, id).
				Update("sort_index", i).Error
			if err != nil {
				return fmt.Errorf("reorder favorites: %w", err)
			}
		}
		return nil
	})
}

// UpdateDetails changes description, image or tags of a saved favorite. Nil fields are kept.
func (s *Store) UpdateDetails(ctx context.Context, userID uint, contentID string, in models.FavoriteDetailsInput) error {
	if err := models.Validate(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	updates := map[string]interface{}{}
	if in.ContentDescription != nil {
		updates["content_description"] = *in.ContentDescription
	}
	if in.ContentImage != nil {
		updates["content_image"] = *in.ContentImage
	}
	if in.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](in.Tags)
	}

	var fav models.UserFavorite
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		First(&fav).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrFavoriteNotFound
	}
	if err != nil {
		return fmt.Errorf("update favorite: %w", err)
	}
	if len(updates) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&fav).Updates(updates).Error; err != nil {
		return fmt.Errorf("update favorite: %w", err)
	}
	return nil
}
