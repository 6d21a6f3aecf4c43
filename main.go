package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/cppla/imagegallery/config"
	"github.com/cppla/imagegallery/routes"
	"github.com/cppla/imagegallery/storage"
	"github.com/cppla/imagegallery/utils"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	// Upload directory doubles as the static directory
	store, err := storage.NewStore(cfg.UploadDir, routes.UploadsURLPrefix)
	if err != nil {
		utils.Logger.Fatal("storage init failed", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	quotes := utils.NewQuoteClient(cfg.QuoteURL, cfg.QuoteTimeout)
	r := routes.SetupRouter(cfg, store, quotes, utils.Logger)

	utils.Sugar.Infof("Server running at http://localhost:%s", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
