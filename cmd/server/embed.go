//go:build embed
// +build embed

package main

import (
	"embed"
	"io/fs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed web/dist
var webDist embed.FS

// setupStaticFiles serves the estimator page from the embedded web/dist
func setupStaticFiles(router *gin.Engine, logger *zap.Logger) {
	logger.Info("📦 Using embedded frontend assets")

	distFS, err := fs.Sub(webDist, "web/dist")
	if err != nil {
		logger.Fatal("Failed to get dist subdirectory", zap.Error(err))
	}
	if err := serveFrontend(router, distFS); err != nil {
		logger.Fatal("❌ Failed to mount frontend", zap.Error(err))
	}
}
