package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sitepages/internal/config"
	"github.com/sitepages/internal/handler"
	"github.com/sitepages/internal/metrics"
	"github.com/sitepages/internal/middleware"
	"github.com/sitepages/internal/view"
	"gorm.io/gorm"
)

const (
	sessionCookieName = "sitepages_session"
	sessionMaxAge     = 7 * 24 * 60 * 60
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, gdb *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), middleware.Metrics())

	if origins := splitOrigins(cfg.CORSOrigin); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 配置会话中间件，Cookie 本身即凭证
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookieName, store))

	r.SetHTMLTemplate(view.Templates())

	// 静态文件服务
	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
			r.Static("/static", cfg.StaticDir)
			favicon := filepath.Join(cfg.StaticDir, "favicon.ico")
			if _, err := os.Stat(favicon); err == nil {
				r.StaticFile("/favicon.ico", favicon)
			}
		}
	}

	api := handler.NewAPI(gdb, handler.Options{
		SiteName:  cfg.SiteName,
		StaticDir: cfg.StaticDir,
	})

	r.GET("/healthz", api.HealthCheck)

	// 每个引擎使用独立的注册表，测试中多次构建路由不会重复注册
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(registry)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// 公开站点
	r.GET("/", api.ShowHome)
	r.GET("/page/:slug", api.ShowPage)

	// 后台前端
	r.GET("/admin/login", api.ShowLoginPage)
	r.GET("/admin", handler.RedirectToLogin("/admin/login"), api.ShowAdmin)

	apiGroup := r.Group("/api")
	{
		limiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst)

		auth := apiGroup.Group("/auth")
		auth.POST("/login", limiter.Middleware(), api.Login)
		auth.POST("/logout", api.Logout)
		auth.GET("/status", api.AuthStatus)

		pages := apiGroup.Group("/pages")
		pages.GET("", api.ListPages)
		pages.GET("/slug/:slug", api.GetPageBySlug)
		pages.GET("/:id", api.GetPage)

		// 写操作需要有效会话
		writes := pages.Group("")
		writes.Use(handler.AuthRequired())
		{
			writes.POST("", api.CreatePage)
			writes.PUT("/:id", api.UpdatePage)
			writes.PUT("/:id/content", api.UpdatePageContent)
			writes.DELETE("/:id", api.DeletePage)
		}
	}

	return r
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
