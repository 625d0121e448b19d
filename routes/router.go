package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pixelway/agencysite/config"
	"github.com/pixelway/agencysite/controllers"
	"github.com/pixelway/agencysite/middleware"
	"github.com/pixelway/agencysite/store"
	"github.com/pixelway/agencysite/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	commentController := controllers.NewCommentController(store.NewCommentStore(db), cfg.AdminPassword)
	contactController := controllers.NewContactController(cfg)
	i18nController := controllers.NewI18nController()

	api := r.Group("/api")

	api.GET("/comments", commentController.ListComments)
	api.GET("/i18n/:lang", i18nController.GetTranslations)

	mutating := api.Group("")
	mutating.Use(middleware.RateLimitMiddleware())
	mutating.POST("/comments", commentController.CreateComment)
	mutating.POST("/comments/:id/like", commentController.LikeComment)
	mutating.DELETE("/comments/:id/delete", commentController.DeleteComment)
	mutating.POST("/contact", contactController.SubmitContact)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		// remaining paths (localized pages like /en/pricing) fall back to the site entry
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}
