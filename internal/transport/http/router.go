package httptransport

import (
	"net/http"
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/govindup63/Ghstmail.me/internal/auth"
	jwtpkg "github.com/govindup63/Ghstmail.me/internal/auth/jwt"
	"github.com/govindup63/Ghstmail.me/internal/config"
	"github.com/govindup63/Ghstmail.me/internal/middleware"
	"github.com/govindup63/Ghstmail.me/internal/monitoring"
	"github.com/govindup63/Ghstmail.me/internal/service"
)

// RouterDependencies collects everything the router needs.
type RouterDependencies struct {
	Config       *config.Config
	AliasService *service.AliasService
	AuthService  *auth.Service
	JWTManager   *jwtpkg.Manager
	Metrics      *monitoring.Metrics
	Logger       *zap.Logger
}

// NewRouter builds the gin engine with all middleware and routes.
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(1 * 1024 * 1024))
	if deps.Metrics != nil {
		router.Use(middleware.HTTPMetrics(deps.Metrics))
	}

	corsConfig := gincors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// Wildcard origins cannot carry credentials.
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	aliasHandler := NewAliasHandler(deps.AliasService, deps.Metrics)
	authHandler := NewAuthHandler(deps.AuthService, deps.JWTManager)
	jwtAuth := middleware.NewJWTAuth(deps.JWTManager, deps.Logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.GET("/me", jwtAuth.RequireAuth(), authHandler.Me)
		}

		aliasRoutes := v1.Group("/aliases")
		aliasRoutes.Use(jwtAuth.RequireAuth())
		{
			aliasRoutes.GET("", aliasHandler.listAliases)
			aliasRoutes.POST("", aliasHandler.createAlias)
			aliasRoutes.DELETE("/:address", aliasHandler.deleteAlias)
		}
	}

	return router
}
