package messaging

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
)

// publishTimeout 单次发布的超时,broker卡住时不拖慢请求
const publishTimeout = 3 * time.Second

// messagePublisher mq.Publisher中用到的方法
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// bookEventMessage 消息体
type bookEventMessage struct {
	Type       string       `json:"type"`
	ISBN       string       `json:"ISBN"`
	Book       *bookPayload `json:"book,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

type bookPayload struct {
	ISBN          string `json:"ISBN"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedDate string `json:"publishedDate"`
	Summary       string `json:"summary"`
}

// BookEventPublisher 通过RabbitMQ发布图书事件
// 发布在熔断器保护下进行:broker持续不可用时事件直接丢弃并计数,不阻塞请求
type BookEventPublisher struct {
	publisher messagePublisher
	breaker   *circuitbreaker.CircuitBreaker
	logger    *zap.Logger
}

// NewBookEventPublisher 创建事件发布者
func NewBookEventPublisher(publisher messagePublisher, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *BookEventPublisher {
	return &BookEventPublisher{publisher: publisher, breaker: breaker, logger: logger}
}

// Publish 实现book.EventPublisher
func (p *BookEventPublisher) Publish(ctx context.Context, event book.Event) error {
	msg := toMessage(event)

	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		return p.publisher.Publish(ctx, event.Type, msg)
	})

	switch {
	case err == nil:
		metrics.RecordEvent(event.Type, metrics.ResultSuccess)
		return nil
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.RecordEvent(event.Type, metrics.ResultDropped)
		p.logger.Warn("熔断器打开,事件已丢弃",
			zap.String("event", event.Type),
			zap.String("isbn", event.ISBN),
			zap.String("breaker", p.breaker.Name()))
	default:
		metrics.RecordEvent(event.Type, metrics.ResultFailure)
	}
	return apperrors.WrapCode(err, apperrors.ErrCodeMQError, apperrors.ErrMQError.Message)
}

func toMessage(event book.Event) bookEventMessage {
	msg := bookEventMessage{
		Type:       event.Type,
		ISBN:       event.ISBN,
		OccurredAt: event.OccurredAt,
	}
	if b := event.Book; b != nil {
		msg.Book = &bookPayload{
			ISBN:          b.ISBN,
			Title:         b.Title,
			Author:        b.Author,
			PublishedDate: b.PublishedDateString(),
			Summary:       b.Summary,
		}
	}
	return msg
}

// NopPublisher 未启用MQ时使用,丢弃所有事件
type NopPublisher struct{}

// Publish 实现book.EventPublisher
func (NopPublisher) Publish(context.Context, book.Event) error {
	return nil
}
