package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sitepages/internal/config"
	"github.com/sitepages/internal/db"
	"github.com/sitepages/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("配置加载失败: %v", err)
	}

	username := flag.String("username", envOr(cfg.AdminUsername, "admin"), "管理员用户名")
	password := flag.String("password", cfg.AdminPassword, "管理员密码（必填）")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "必须通过 -password 或 ADMIN_PASSWORD 提供密码")
		os.Exit(2)
	}

	// 初始化数据库
	if err := db.Init(db.Options{
		Driver: cfg.DatabaseDriver,
		Path:   cfg.DatabasePath,
		DSN:    cfg.DatabaseDSN,
	}); err != nil {
		logger.Fatalf("数据库初始化失败: %v", err)
	}
	defer db.Close(db.DB)

	created, err := db.EnsureUser(db.DB, *username, *password)
	if err != nil {
		logger.Fatalf("创建用户失败: %v", err)
	}
	if !created {
		fmt.Printf("用户 %s 已存在，无需初始化\n", *username)
		return
	}
	fmt.Printf("管理员用户 %s 创建成功\n", *username)
}

func envOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
