package main

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// serveFrontend mounts the estimator page from assets, which must hold
// index.html and a static/ directory. Unknown non-API paths get the page.
func serveFrontend(router *gin.Engine, assets fs.FS) error {
	index, err := fs.ReadFile(assets, "index.html")
	if err != nil {
		return fmt.Errorf("failed to read index.html: %w", err)
	}
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return fmt.Errorf("failed to open static assets: %w", err)
	}

	page := func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	}

	router.StaticFS("/static", http.FS(static))
	router.GET("/", page)
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		page(c)
	})
	return nil
}
