package main

import (
	"github.com/pixelway/agencysite/config"
	"github.com/pixelway/agencysite/models"
	"github.com/pixelway/agencysite/routes"
	"github.com/pixelway/agencysite/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	if cfg.AdminPassword == "" {
		utils.Sugar.Warn("ADMIN_PASSWORD is not set; comment deletion is disabled")
	}

	db := config.InitDatabase(&models.Comment{})

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
