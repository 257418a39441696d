package messaging

import (
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/pkg/circuitbreaker"
	"github.com/xiebiao/bookstore-api/pkg/mq"
)

// breakerName 熔断器名称(也是指标标签)
const breakerName = "rabbitmq"

// NewEventPublisher 按配置创建事件发布者
// mq.enabled=false时返回NopPublisher;启用时连接失败直接返回错误,不静默降级
func NewEventPublisher(cfg *config.Config, logger *zap.Logger) (book.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		logger.Info("消息队列未启用,图书事件不会发布")
		return NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, logger)
	if err != nil {
		return nil, nil, err
	}

	breakerCfg := circuitbreaker.DefaultConfig()
	breakerCfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		logger.Warn("熔断器状态变化",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	breaker := circuitbreaker.New(breakerName, breakerCfg)

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("关闭消息队列连接失败", zap.Error(err))
		}
	}
	return NewBookEventPublisher(publisher, breaker, logger), cleanup, nil
}
