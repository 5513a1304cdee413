// Package app wires storage, source clients and controllers into a gin engine.
package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UnicornXOS/bl1nk-web-portal/config"
	"github.com/UnicornXOS/bl1nk-web-portal/controllers"
	"github.com/UnicornXOS/bl1nk-web-portal/routes"
	"github.com/UnicornXOS/bl1nk-web-portal/services/agents"
	"github.com/UnicornXOS/bl1nk-web-portal/services/apikeys"
	"github.com/UnicornXOS/bl1nk-web-portal/services/cache"
	"github.com/UnicornXOS/bl1nk-web-portal/services/catalog"
	"github.com/UnicornXOS/bl1nk-web-portal/services/chat"
	"github.com/UnicornXOS/bl1nk-web-portal/services/content"
	"github.com/UnicornXOS/bl1nk-web-portal/services/craft"
	"github.com/UnicornXOS/bl1nk-web-portal/services/favorites"
	"github.com/UnicornXOS/bl1nk-web-portal/services/github"
	"github.com/UnicornXOS/bl1nk-web-portal/services/notion"
	"github.com/UnicornXOS/bl1nk-web-portal/services/preferences"
	"github.com/UnicornXOS/bl1nk-web-portal/services/preview"
	"github.com/UnicornXOS/bl1nk-web-portal/services/users"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

type App struct {
	Router     *gin.Engine
	Aggregator *content.Aggregator

	cron *cron.Cron
	log  *zap.Logger
}

// Options lets callers (tests) replace OAuth providers.
type Options struct {
	Providers map[string]*controllers.OAuthProvider
}

// New builds the application. It also installs cfg and rdb as the process-wide
// handles the auth middleware reads.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *zap.Logger, opts Options) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	config.Set(cfg)
	utils.SetRedis(rdb)

	contentCache := cache.New(rdb, cfg.CacheTTL, log)
	ghClient := github.NewClient(cfg.GitHubAPIURL, cfg.HTTPTimeout, contentCache)
	notionClient := notion.NewClient(cfg.NotionAPIURL, cfg.NotionToken, cfg.NotionDatabaseID, cfg.HTTPTimeout, contentCache)
	craftClient := craft.NewClient(cfg.CraftAPIURL, cfg.HTTPTimeout, contentCache, log)

	cat, err := catalog.Load(cfg.ContentCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load content catalog: %w", err)
	}

	agg := content.NewAggregator(log,
		&content.GitHubSource{Client: ghClient, DefaultUsername: cfg.GitHubUsername, DefaultToken: cfg.GitHubToken},
		&content.CatalogSource{Catalog: cat},
		&content.NotionSource{Client: notionClient},
		&content.CraftSource{Client: craftClient},
	)

	favStore := favorites.NewStore(db)
	keyStore := apikeys.NewStore(db, utils.NewSealer(cfg.EncryptionSecret))

	providers := opts.Providers
	if providers == nil {
		providers = controllers.DefaultProviders(cfg)
	}

	h := routes.Handlers{
		Auth:        controllers.NewAuthController(users.NewUserService(db, rdb), cfg, providers),
		Content:     controllers.NewContentController(agg, favStore, cat, preview.NewFetcher(cfg.HTTPTimeout)),
		GitHub:      controllers.NewGitHubController(ghClient, cfg.GitHubUsername, cfg.GitHubToken),
		Notion:      controllers.NewNotionController(notionClient),
		Craft:       controllers.NewCraftController(craftClient),
		Favorites:   controllers.NewFavoriteController(favStore),
		Agents:      controllers.NewAgentController(agents.NewStore(db)),
		Preferences: controllers.NewPreferenceController(preferences.NewStore(db)),
		APIKeys:     controllers.NewAPIKeyController(keyStore),
		Chat:        controllers.NewChatController(chat.NewService(keyStore, rdb), rdb, cfg.ChatRatePerMinute),
	}

	return &App{
		Router:     routes.SetupRouter(cfg, h, log),
		Aggregator: agg,
		log:        log,
	}, nil
}

// StartCron schedules cache warming when a schedule is configured.
func (a *App) StartCron(cfg *config.Config) error {
	if cfg.CacheWarmSchedule == "" {
		return nil
	}
	c, err := content.StartCacheWarmCron(cfg.CacheWarmSchedule, a.Aggregator, cfg.HTTPTimeout*2, a.log)
	if err != nil {
		return fmt.Errorf("start cache cron: %w", err)
	}
	a.cron = c
	return nil
}

// Stop halts the scheduler and waits for a running job.
func (a *App) Stop() {
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
}
