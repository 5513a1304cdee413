package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/UnicornXOS/bl1nk-web-portal/config"
	"github.com/UnicornXOS/bl1nk-web-portal/controllers"
	"github.com/UnicornXOS/bl1nk-web-portal/middleware"
	"github.com/UnicornXOS/bl1nk-web-portal/models"
)

// Handlers bundles every controller the router mounts.
type Handlers struct {
	Auth        *controllers.AuthController
	Content     *controllers.ContentController
	GitHub      *controllers.GitHubController
	Notion      *controllers.NotionController
	Craft       *controllers.CraftController
	Favorites   *controllers.FavoriteController
	Agents      *controllers.AgentController
	Preferences *controllers.PreferenceController
	APIKeys     *controllers.APIKeyController
	Chat        *controllers.ChatController
}

// SetupRouter builds the gin engine with middleware and every route group.
func SetupRouter(cfg *config.Config, h Handlers, log *zap.Logger) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		models.UseJSONNames(v)
	}

	if log == nil {
		log = zap.NewNop()
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = config.DefaultCORSOrigins
	}

	r := gin.New()
	if cfg.Debug {
		r.Use(gin.Logger())
	} else {
		r.Use(middleware.RequestLogger(log))
	}
	r.Use(middleware.RecoveryMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	})

	SetupAuthRoutes(r, h)
	api := r.Group("/api")
	SetupSourceRoutes(api, h)
	SetupContentRoutes(api, h)
	SetupAgentRoutes(api, h)
	SetupUserRoutes(api, h)
	return r
}
