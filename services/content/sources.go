package content

import (
	"context"
	"errors"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
	"github.com/UnicornXOS/bl1nk-web-portal/services/catalog"
	"github.com/UnicornXOS/bl1nk-web-portal/services/craft"
	"github.com/UnicornXOS/bl1nk-web-portal/services/github"
	"github.com/UnicornXOS/bl1nk-web-portal/services/notion"
)

// ErrSourceSkipped marks a source with nothing to fetch for this request.
var ErrSourceSkipped = errors.New("source skipped")

// Request carries per-request source parameters.
type Request struct {
	GitHubUsername string
	GitHubToken    string
}

// Source produces normalized items for one upstream.
type Source interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]models.ContentItem, error)
}

// refresher is implemented by sources whose listings are cached.
type refresher interface {
	Refresh(ctx context.Context) error
}

type GitHubSource struct {
	Client          *github.Client
	DefaultUsername string
	DefaultToken    string
}

func (s *GitHubSource) Name() string { return models.SourceGitHub }

func (s *GitHubSource) Fetch(ctx context.Context, req Request) ([]models.ContentItem, error) {
	username, token := req.GitHubUsername, req.GitHubToken
	if username == "" {
		username, token = s.DefaultUsername, s.DefaultToken
	}
	if username == "" {
		return nil, ErrSourceSkipped
	}
	repos, err := s.Client.ListRepos(ctx, username, token)
	if err != nil {
		return nil, err
	}
	return FromGitHubRepos(repos), nil
}

func (s *GitHubSource) Refresh(ctx context.Context) error {
	if s.DefaultUsername == "" {
		return nil
	}
	return s.Client.InvalidateRepos(ctx, s.DefaultUsername)
}

type NotionSource struct {
	Client *notion.Client
}

func (s *NotionSource) Name() string { return models.SourceNotion }

func (s *NotionSource) Fetch(ctx context.Context, _ Request) ([]models.ContentItem, error) {
	if !s.Client.Configured() {
		return nil, ErrSourceSkipped
	}
	pages, err := s.Client.GetPages(ctx)
	if err != nil {
		return nil, err
	}
	return FromNotionPages(pages), nil
}

func (s *NotionSource) Refresh(ctx context.Context) error {
	return s.Client.InvalidatePages(ctx)
}

type CraftSource struct {
	Client *craft.Client
}

func (s *CraftSource) Name() string { return models.SourceCraft }

func (s *CraftSource) Fetch(ctx context.Context, _ Request) ([]models.ContentItem, error) {
	return FromCraftDocuments(s.Client.GetDocuments(ctx), s.Client.BaseURL()), nil
}

func (s *CraftSource) Refresh(ctx context.Context) error {
	return s.Client.InvalidateDocuments(ctx)
}

// CatalogSource serves the hand-maintained GitBook and Notion cards.
type CatalogSource struct {
	Catalog *catalog.Catalog
}

func (s *CatalogSource) Name() string { return "catalog" }

func (s *CatalogSource) Fetch(ctx context.Context, _ Request) ([]models.ContentItem, error) {
	return s.Catalog.Items(), nil
}
