package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
)

// NewClient 创建MongoDB客户端
// 设计说明：
// 1. 连接串来自配置(MONGODB_URI),启动时只读取一次
// 2. 测试连接可用性(Ping primary),失败直接返回错误
// 3. 超时、重试使用驱动默认策略,应用层不做额外重试
func NewClient(cfg *config.Config, logger *zap.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetAppName(cfg.Tracing.ServiceName))
	if err != nil {
		return nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB连接测试失败: %w", err)
	}

	logger.Info("✓ MongoDB连接成功", zap.String("database", cfg.Mongo.Database))
	return client, nil
}

// NewBookCollection 获取图书集合并确保ISBN唯一索引存在
// 唯一索引是ISBN唯一性的最终保证,重复插入时驱动返回错误码11000
func NewBookCollection(ctx context.Context, client *mongo.Client, cfg *config.Config) (*mongo.Collection, error) {
	coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)

	ctx, cancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
	defer cancel()

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: fieldISBN, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_isbn"),
	})
	if err != nil {
		return nil, fmt.Errorf("创建ISBN唯一索引失败: %w", err)
	}
	return coll, nil
}

// Disconnect 断开连接(进程退出时调用)
func Disconnect(client *mongo.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Warn("断开MongoDB连接失败", zap.Error(err))
	}
}
