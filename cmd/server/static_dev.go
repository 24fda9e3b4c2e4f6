//go:build !embed
// +build !embed

package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// webDir is relative to the repository root, where `go run ./cmd/server` is started
const webDir = "./cmd/server/web/dist"

// setupStaticFiles serves the estimator page from disk for development (no embedding)
func setupStaticFiles(router *gin.Engine, logger *zap.Logger) {
	logger.Info("🔧 Using local filesystem for frontend assets (development mode)", zap.String("dir", webDir))

	if err := serveFrontend(router, os.DirFS(webDir)); err != nil {
		logger.Warn("⚠️ Frontend not available, serving API only", zap.Error(err))
	}
}
