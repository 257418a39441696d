//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链:
// *gin.Engine → *handler.BookHandler → 各Use Case
// → book.Service + book.EventPublisher → book.Repository
// → (mongo | mysql | memory),由storage.driver决定

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookstore-api/internal/application/book"
	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/messaging"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence"
	"github.com/xiebiao/bookstore-api/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-api/internal/interface/http/router"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 仓储和事件发布者都带cleanup,Wire按创建的逆序调用
var infrastructureSet = wire.NewSet(
	persistence.NewBookRepository, // 图书仓储(按驱动选择)
	messaging.NewEventPublisher,   // 图书事件发布者(未启用MQ时为空实现)
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
)

// provideGinEngine 设置运行模式并注册路由
func provideGinEngine(cfg *config.Config, bookHandler *handler.BookHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	return router.New(bookHandler, logger)
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// cfg和logger由main创建后传入(logger在依赖构造之前就要用)
// 返回的cleanup断开存储连接并关闭MQ连接
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil, nil
}
