// seed 从YAML/JSON文件导入图书
//
// 用法:
//
//	go run ./cmd/seed books.yaml
//	go run ./cmd/seed --driver=memory --one-by-one --skip-duplicates books.json
//
// 存储连接沿用服务的配置(config.yaml / .env / BOOKSTORE_*环境变量);
// 导入不发布图书事件。
package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence"
	"github.com/xiebiao/bookstore-api/pkg/logger"
)

// CLI 命令行参数
type CLI struct {
	File           string `arg:"" help:"Path to a YAML or JSON file with books" type:"existingfile"`
	Driver         string `help:"Override storage.driver (mongo, mysql, memory)"`
	OneByOne       bool   `help:"Insert books one at a time instead of a single bulk insert"`
	SkipDuplicates bool   `help:"Skip books whose ISBN already exists (implies --one-by-one)"`
	LogLevel       string `help:"Log level" enum:"debug,info,warn,error" default:"info"`
}

// Run 执行导入
func (c *CLI) Run() error {
	log, err := logger.New(logger.Options{Level: c.LogLevel, Format: "console", Output: "stderr"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if c.Driver != "" {
		// 在config.Load之前设置,覆盖配置文件和BOOKSTORE_STORAGE_DRIVER
		if err := os.Setenv("BOOKSTORE_STORAGE_DRIVER", c.Driver); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	books, err := loadBooks(c.File)
	if err != nil {
		return err
	}
	log.Info("读取种子文件", zap.String("file", c.File), zap.Int("books", len(books)))

	repo, cleanup, err := persistence.NewBookRepository(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	s := &seeder{
		svc:            book.NewService(repo),
		logger:         log,
		bulk:           !c.OneByOne,
		skipDuplicates: c.SkipDuplicates,
	}
	res, err := s.run(context.Background(), books)
	if err != nil {
		log.Error("导入失败", zap.Int("inserted", res.Inserted), zap.Error(err))
		return err
	}

	log.Info("✓ 导入完成",
		zap.String("storage", cfg.Storage.Driver),
		zap.Int("inserted", res.Inserted),
		zap.Int("skipped", res.Skipped),
	)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("seed"),
		kong.Description("Load books from a YAML or JSON file into the bookstore storage."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
