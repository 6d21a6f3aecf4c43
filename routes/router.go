package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/imagegallery/config"
	"github.com/cppla/imagegallery/controllers"
	"github.com/cppla/imagegallery/storage"
	"github.com/cppla/imagegallery/utils"
)

// UploadsURLPrefix is where stored images are served from.
const UploadsURLPrefix = "/uploads"

// uploadField is the multipart field carrying image files.
const uploadField = "files"

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, store *storage.Store, quotes controllers.QuoteFetcher, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		logger.Warn("gin access log disabled", zap.Error(err))
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", utils.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", utils.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static(UploadsURLPrefix, store.Dir())

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	imageController := controllers.NewImageController(store, controllers.UploadPolicy{
		Field:        uploadField,
		MaxFileSize:  cfg.UploadMaxFileSize,
		AllowedTypes: cfg.UploadAllowedTypes,
	}, logger)
	quoteController := controllers.NewQuoteController(quotes, logger)

	r.POST("/upload-multiple", imageController.UploadMultiple)
	r.GET("/images", imageController.ListImages)
	r.DELETE("/images/:filename", imageController.DeleteImage)
	r.GET("/quote", quoteController.GetQuote)

	return r
}
