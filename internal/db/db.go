package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Options 描述打开存储所需的参数。
type Options struct {
	// Driver 为 "sqlite"（默认）或 "postgres"。
	Driver string
	// Path 为 sqlite 文件路径，也可以是 file: 形式的 DSN。
	Path string
	// DSN 为 postgres 连接串。
	DSN string
	// LogLevel 控制 gorm 自身的 SQL 日志，零值等同于 Warn。
	LogLevel logger.LogLevel
}

// Init 打开数据库、执行迁移并写入全局 DB。
// Path 为空时将回退到默认值 sitepages.db。
func Init(opts Options) error {
	gdb, err := Open(opts)
	if err != nil {
		return err
	}
	if err := Migrate(gdb); err != nil {
		return err
	}
	DB = gdb
	return nil
}

// Open 按驱动建立连接。TranslateError 打开后，唯一约束冲突统一返回 gorm.ErrDuplicatedKey。
func Open(opts Options) (*gorm.DB, error) {
	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", "sqlite":
		path := strings.TrimSpace(opts.Path)
		if path == "" {
			path = "sitepages.db"
		}
		if !strings.HasPrefix(path, "file:") {
			if err := ensureParentDir(path); err != nil {
				return nil, err
			}
		}
		dialector = sqlite.Open(path)
	case "postgres":
		if strings.TrimSpace(opts.DSN) == "" {
			return nil, errors.New("postgres dsn is required")
		}
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	gdb, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return gdb, nil
}

// Migrate 为核心模型建表，并保证 slug 唯一索引存在。
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&User{}, &Page{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	migrator := gdb.Migrator()
	if !migrator.HasIndex(&Page{}, "idx_pages_slug") {
		if err := migrator.CreateIndex(&Page{}, "idx_pages_slug"); err != nil {
			return fmt.Errorf("create slug index: %w", err)
		}
	}
	return nil
}

// Close 关闭底层连接池。
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
