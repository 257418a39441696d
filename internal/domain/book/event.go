package book

import (
	"context"
	"time"
)

// 图书生命周期事件类型(同时作为MQ的routing key)
const (
	EventCreated = "book.created"
	EventUpdated = "book.updated"
	EventDeleted = "book.deleted"
)

// Event 图书生命周期事件
// ISBN为操作时使用的ISBN;更新改了ISBN时,新ISBN在Book里
type Event struct {
	Type       string
	ISBN       string
	Book       *Book
	OccurredAt time.Time
}

// NewEvent 创建事件
func NewEvent(eventType, isbn string, b *Book) Event {
	return Event{
		Type:       eventType,
		ISBN:       isbn,
		Book:       b,
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher 事件发布接口(infrastructure/messaging实现)
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
