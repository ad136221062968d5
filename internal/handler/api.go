package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sitepages/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	pages     *service.PageService
	auth      *service.AuthService
	siteName  string
	staticDir string
}

// Options configures the non-database parts of the handler set.
type Options struct {
	SiteName  string
	StaticDir string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, opts Options) *API {
	siteName := strings.TrimSpace(opts.SiteName)
	if siteName == "" {
		siteName = "sitepages"
	}

	return &API{
		db:        db,
		pages:     service.NewPageService(db),
		auth:      service.NewAuthService(db),
		siteName:  siteName,
		staticDir: strings.TrimSpace(opts.StaticDir),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}
	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = a.siteName
	}

	c.HTML(status, template, payload)
}
