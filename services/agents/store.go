package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	SearchLimit  = 50
)

var (
	ErrForbidden       = errors.New("admin access required")
	ErrAgentNotFound   = errors.New("agent not found")
	ErrProfileNotFound = errors.New("agent profile not found")
	ErrInvalidInput    = errors.New("invalid input")
)

type ListResult struct {
	Agents []models.Agent `json:"agents"`
	Total  int64          `json:"total"`
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// List pages through public agents, most downloaded first. Search and language
// filters are combined; Total counts the filtered rows.
func (s *Store) List(ctx context.Context, q models.AgentListQuery) (*ListResult, error) {
	if err := models.Validate(q); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}

	query := s.db.WithContext(ctx).Model(&models.Agent{}).Where("is_public = ?", true)
	if search := strings.TrimSpace(q.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(search))
	}
	if q.Language != "" {
		query = query.Where("language = ?", q.Language)
	}

	res := &ListResult{Agents: []models.Agent{}}
	if err := query.Count(&res.Total).Error; err != nil {
		return nil, fmt.Errorf("count agents: %w", err)
	}
	err := query.Order("download_count DESC").Order("id ASC").
		Offset((q.Page - 1) * q.Limit).Limit(q.Limit).
		Find(&res.Agents).Error
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return res, nil
}

func (s *Store) Get(ctx context.Context, id uint) (*models.Agent, error) {
	var a models.Agent
	err := s.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get agent: %w", err)
	}
	return &a, nil
}

// Search matches public agent names case-insensitively, capped at SearchLimit results.
func (s *Store) Search(ctx context.Context, query string) ([]models.Agent, error) {
	out := []models.Agent{}
	query = strings.TrimSpace(query)
	if query == "" {
		return out, nil
	}
	err := s.db.WithContext(ctx).
		Where("is_public = ?", true).
		Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(query)).
		Order("download_count DESC").Order("id ASC").
		Limit(SearchLimit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("search agents: %w", err)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, role string, in models.AgentInput) (*models.Agent, error) {
	if role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if err := models.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	in.DownloadCount, in.Rating = 0, 0
	a := in.ToAgent()
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	return &a, nil
}

// Update applies the non-nil fields of in. Download count and rating are never touched.
func (s *Store) Update(ctx context.Context, role string, id uint, in models.AgentUpdate) (*models.Agent, error) {
	if role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if err := models.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	setString("name", in.Name)
	setString("version", in.Version)
	setString("description", in.Description)
	setString("language", in.Language)
	setString("endpoint", in.Endpoint)
	setString("author", in.Author)
	setString("author_url", in.AuthorURL)
	setString("repository_url", in.RepositoryURL)
	setString("documentation_url", in.DocumentationURL)
	if in.Tools != nil {
		updates["tools"] = datatypes.JSONSlice[models.AgentTool](in.Tools)
	}
	if in.Dependencies != nil {
		updates["dependencies"] = datatypes.JSONSlice[string](in.Dependencies)
	}
	if in.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](in.Tags)
	}
	if in.AutoLoad != nil {
		updates["auto_load"] = *in.AutoLoad
	}
	if in.IsPublic != nil {
		updates["is_public"] = *in.IsPublic
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(a).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update agent: %w", err)
		}
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, role string, id uint) error {
	if role != models.RoleAdmin {
		return ErrForbidden
	}
	res := s.db.WithContext(ctx).Delete(&models.Agent{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete agent: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAgentNotFound
	}
	return nil
}

// IncrementDownloads bumps the counter in a single UPDATE so concurrent calls never lose counts.
func (s *Store) IncrementDownloads(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Agent{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment downloads: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAgentNotFound
	}
	return nil
}

// ListProfiles returns profiles with their skills, optionally narrowed by track and a
// case-insensitive match on profile name or description.
func (s *Store) ListProfiles(ctx context.Context, track, search string) ([]models.AgentProfile, error) {
	query := s.db.WithContext(ctx).Preload("Skills", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
	if track != "" {
		query = query.Where("track = ?", track)
	}
	if search = strings.TrimSpace(search); search != "" {
		p := likePattern(search)
		query = query.Where("LOWER(agent_profile) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\\'", p, p)
	}
	out := []models.AgentProfile{}
	if err := query.Order("agent_id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list agent profiles: %w", err)
	}
	return out, nil
}

func (s *Store) GetProfile(ctx context.Context, agentID string) (*models.AgentProfile, error) {
	var p models.AgentProfile
	err := s.db.WithContext(ctx).
		Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("agent_id = ?", agentID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get agent profile: %w", err)
	}
	return &p, nil
}

// likePattern lowercases s and escapes LIKE wildcards for a substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
