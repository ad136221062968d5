package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sitepages/internal/config"
	"github.com/sitepages/internal/db"
	"github.com/sitepages/internal/logger"
	"github.com/sitepages/internal/service"
	"gorm.io/gorm"
)

// 示例页面生成器，重复执行时跳过已存在的 slug
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("配置加载失败: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// 初始化数据库
	if err := db.Init(db.Options{
		Driver: cfg.DatabaseDriver,
		Path:   cfg.DatabasePath,
		DSN:    cfg.DatabaseDSN,
	}); err != nil {
		logger.Fatalf("数据库初始化失败: %v", err)
	}
	defer db.Close(db.DB)

	fmt.Println("开始生成示例页面...")
	created, skipped, err := seedPages(context.Background(), db.DB, samplePages())
	if err != nil {
		logger.Fatalf("生成示例页面失败: %v", err)
	}
	fmt.Printf("示例页面生成完成：新建 %d 个，跳过 %d 个\n", created, skipped)
}

func seedPages(ctx context.Context, gdb *gorm.DB, pages []service.PageInput) (int, int, error) {
	svc := service.NewPageService(gdb)

	created, skipped := 0, 0
	for _, input := range pages {
		_, err := svc.Create(ctx, input)
		switch {
		case err == nil:
			created++
		case errors.Is(err, service.ErrPageSlugTaken):
			skipped++
		default:
			return created, skipped, fmt.Errorf("seed %q: %w", input.Slug, err)
		}
	}
	return created, skipped, nil
}

func samplePages() []service.PageInput {
	return []service.PageInput{
		{
			Title:           "About",
			Slug:            "about",
			Content:         "<h1>About us</h1><p>We are a small team building dependable software.</p>",
			MetaDescription: "Who we are and how we work.",
		},
		{
			Title:   "Services",
			Slug:    "services",
			Content: "<h1>Services</h1><ul><li>Consulting</li><li>Development</li><li>Support</li></ul>",
		},
		{
			Title:           "Contact",
			Slug:            "contact",
			Content:         "<h1>Contact</h1><p>Write to <a href=\"mailto:hello@example.com\">hello@example.com</a>.</p>",
			MetaDescription: "Get in touch.",
		},
	}
}
