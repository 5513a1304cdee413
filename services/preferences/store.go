package preferences

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
)

var ErrInvalidInput = errors.New("invalid input")

var preferenceColumns = []string{
	"theme", "language", "notifications_enabled", "email_notifications",
	"dashboard_layout", "items_per_page", "enabled_sources", "auto_refresh",
	"auto_refresh_interval", "updated_at",
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get returns the saved preferences, or the defaults when the user never saved any.
func (s *Store) Get(ctx context.Context, userID uint) (*models.UserPreference, error) {
	var p models.UserPreference
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		def := models.DefaultPreference(userID)
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return &p, nil
}

// Update merges in over the current preferences and stores the result.
func (s *Store) Update(ctx context.Context, userID uint, in models.PreferenceUpdate) (*models.UserPreference, error) {
	if err := models.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	apply(p, in)

	if p.ID != 0 {
		err = s.db.WithContext(ctx).Model(p).Select(preferenceColumns).Updates(p).Error
	} else {
		// A concurrent first save for the same user turns into an update.
		err = s.db.WithContext(ctx).
			Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns(preferenceColumns),
			}).
			Create(p).Error
	}
	if err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	return s.Get(ctx, userID)
}

func apply(p *models.UserPreference, in models.PreferenceUpdate) {
	if in.Theme != nil {
		p.Theme = *in.Theme
	}
	if in.Language != nil {
		p.Language = *in.Language
	}
	if in.NotificationsEnabled != nil {
		p.NotificationsEnabled = *in.NotificationsEnabled
	}
	if in.EmailNotifications != nil {
		p.EmailNotifications = *in.EmailNotifications
	}
	if in.DashboardLayout != nil {
		p.DashboardLayout = *in.DashboardLayout
	}
	if in.ItemsPerPage != nil {
		p.ItemsPerPage = *in.ItemsPerPage
	}
	if in.EnabledSources != nil {
		p.EnabledSources = datatypes.JSONSlice[string](in.EnabledSources)
	}
	if in.AutoRefresh != nil {
		p.AutoRefresh = *in.AutoRefresh
	}
	if in.AutoRefreshInterval != nil {
		p.AutoRefreshInterval = *in.AutoRefreshInterval
	}
}
