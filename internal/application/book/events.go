package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/tracing"
)

// publishEvents 写操作成功后发布事件
// 发布失败只记日志:存储已经提交,不能因为MQ故障把成功的请求变成失败
func publishEvents(ctx context.Context, publisher book.EventPublisher, logger *zap.Logger, events ...book.Event) {
	for _, event := range events {
		if err := publisher.Publish(ctx, event); err != nil {
			logger.Warn("发布图书事件失败",
				zap.String("event", event.Type),
				zap.String("isbn", event.ISBN),
				zap.String("trace_id", tracing.ExtractTraceID(ctx)),
				zap.Error(err))
		}
	}
}
