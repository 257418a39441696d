// Package persistence 按storage.driver选择图书仓储实现
package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/mongo"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/mysql"
)

// NewBookRepository 创建图书仓储,返回的cleanup负责断开连接
// - mongo: 默认存储,启动时确保ISBN唯一索引
// - mysql: 启动时AutoMigrate books表
// - memory: 本地开发用,进程退出数据即丢失
func NewBookRepository(cfg *config.Config, logger *zap.Logger) (book.Repository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, err := mongo.NewClient(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		coll, err := mongo.NewBookCollection(context.Background(), client, cfg)
		if err != nil {
			mongo.Disconnect(client, logger)
			return nil, nil, err
		}
		cleanup := func() { mongo.Disconnect(client, logger) }
		return mongo.NewBookRepository(coll), cleanup, nil

	case config.DriverMySQL:
		db, err := mysql.NewDB(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { mysql.Close(db, logger) }
		return mysql.NewBookRepository(db, mysql.NewTxManager(db)), cleanup, nil

	case config.DriverMemory:
		logger.Warn("使用内存存储,数据不会持久化")
		return memory.NewBookRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("不支持的存储驱动: %s", cfg.Storage.Driver)
	}
}
