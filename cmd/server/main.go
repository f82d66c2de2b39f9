package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	httpAdapter "github.com/khoahotran/portfolio-api/adapters/http"
	"github.com/khoahotran/portfolio-api/adapters/persistence"
	resourceUC "github.com/khoahotran/portfolio-api/internal/application/usecase/resource"
	"github.com/khoahotran/portfolio-api/internal/config"
	"github.com/khoahotran/portfolio-api/internal/domain/resource"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: invalid config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	// The provider is injected everywhere a handler needs storage; it connects
	// on the first request and reuses the handle for the process lifetime.
	provider := persistence.NewProvider(cfg, appLogger)
	svc := resourceUC.NewService(provider, appLogger)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), httpAdapter.CORS(), httpAdapter.RequestID(), httpAdapter.RequestLogger(appLogger))

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

	for _, kind := range resource.Kinds() {
		httpAdapter.NewResourceHandler(kind, svc, appLogger).Register(router)
	}

	appLogger.Info("portfolio API listening on port " + cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("cannot run server", err)
	}
}
