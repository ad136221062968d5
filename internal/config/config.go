package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DriverSQLite 使用本地 sqlite 文件作为存储。
	DriverSQLite = "sqlite"
	// DriverPostgres 使用 DATABASE_DSN 指向的 PostgreSQL。
	DriverPostgres = "postgres"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr      string
	Port            string
	DatabaseDriver  string
	DatabasePath    string
	DatabaseDSN     string
	SessionSecret   string
	SessionSecure   bool
	GinMode         string
	StaticDir       string
	SiteName        string
	CORSOrigin      string
	LogLevel        string
	LogFormat       string
	AdminUsername   string
	AdminPassword   string
	LoginRateLimit  float64
	LoginRateBurst  int
	ShutdownTimeout time.Duration
}

// Load 从 .env 与环境变量读取应用配置，并为缺失项提供开发环境默认值。
func Load() (AppConfig, error) {
	// .env 不存在时直接使用环境变量
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_PATH", "sitepages.db")
	v.SetDefault("SESSION_SECRET", "sitepages-dev-secret")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("STATIC_DIR", "public")
	v.SetDefault("SITE_NAME", "sitepages")
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOGIN_RATE_LIMIT", 0.2)
	v.SetDefault("LOGIN_RATE_BURST", 5)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	port := strings.TrimSpace(v.GetString("PORT"))
	listenAddr := strings.TrimSpace(v.GetString("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	cfg := AppConfig{
		ListenAddr:      listenAddr,
		Port:            port,
		DatabaseDriver:  strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER"))),
		DatabasePath:    strings.TrimSpace(v.GetString("DATABASE_PATH")),
		DatabaseDSN:     strings.TrimSpace(v.GetString("DATABASE_DSN")),
		SessionSecret:   strings.TrimSpace(v.GetString("SESSION_SECRET")),
		SessionSecure:   v.GetBool("SESSION_SECURE"),
		GinMode:         strings.TrimSpace(v.GetString("GIN_MODE")),
		StaticDir:       strings.TrimSpace(v.GetString("STATIC_DIR")),
		SiteName:        strings.TrimSpace(v.GetString("SITE_NAME")),
		CORSOrigin:      strings.TrimSpace(v.GetString("CORS_ORIGIN")),
		LogLevel:        strings.TrimSpace(v.GetString("LOG_LEVEL")),
		LogFormat:       strings.TrimSpace(v.GetString("LOG_FORMAT")),
		AdminUsername:   strings.TrimSpace(v.GetString("ADMIN_USERNAME")),
		AdminPassword:   strings.TrimSpace(v.GetString("ADMIN_PASSWORD")),
		LoginRateLimit:  v.GetFloat64("LOGIN_RATE_LIMIT"),
		LoginRateBurst:  v.GetInt("LOGIN_RATE_BURST"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate 检查存储配置是否自洽。
func (c AppConfig) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN is required when DATABASE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET must not be empty")
	}
	if c.LoginRateBurst < 1 {
		return errors.New("LOGIN_RATE_BURST must be at least 1")
	}
	return nil
}
