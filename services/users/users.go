package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
)

var ErrUserNotFound = errors.New("user not found")

// Profile is what an OAuth provider tells us about the signed-in account.
type Profile struct {
	Provider string
	ID       string
	Name     string
	Email    string
}

func (p Profile) OpenID() string {
	return p.Provider + ":" + p.ID
}

type UserService struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewUserService(db *gorm.DB, rdb *redis.Client) *UserService {
	return &UserService{DB: db, RDB: rdb}
}

// SignIn creates or refreshes the user behind an OAuth profile. created reports a first sign-in.
// admin promotes the account; it never demotes one.
func (s *UserService) SignIn(ctx context.Context, p Profile, admin bool) (user *models.User, created bool, err error) {
	openID := p.OpenID()
	now := time.Now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		findErr := tx.Where("open_id = ?", openID).First(&u).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			u = models.User{
				OpenID:       openID,
				Name:         optional(p.Name),
				Email:        optional(p.Email),
				LoginMethod:  optional(p.Provider),
				Role:         models.RoleUser,
				LastSignedIn: now,
			}
			if admin {
				u.Role = models.RoleAdmin
			}
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
			created = true
		case findErr != nil:
			return findErr
		default:
			updates := map[string]interface{}{"last_signed_in": now}
			if p.Name != "" {
				updates["name"] = p.Name
			}
			if p.Email != "" {
				updates["email"] = p.Email
			}
			if admin {
				updates["role"] = models.RoleAdmin
			}
			if err := tx.Model(&u).Updates(updates).Error; err != nil {
				return err
			}
			if err := tx.First(&u, u.ID).Error; err != nil {
				return err
			}
		}
		user = &u
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("sign in %s: %w", openID, err)
	}
	return user, created, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Revoke blacklists a token for the rest of its lifetime. Without Redis it is a no-op.
func (s *UserService) Revoke(ctx context.Context, key string, ttl time.Duration) error {
	if s.RDB == nil || ttl <= 0 {
		return nil
	}
	return s.RDB.Set(ctx, key, "1", ttl).Err()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
