package book

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
	"github.com/xiebiao/bookstore-api/pkg/tracing"
)

// DeleteBookUseCase 按ISBN删除,返回被删除的记录
type DeleteBookUseCase struct {
	bookService book.Service
	publisher   book.EventPublisher
	logger      *zap.Logger
}

func NewDeleteBookUseCase(bookService book.Service, publisher book.EventPublisher, logger *zap.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *DeleteBookUseCase) Execute(ctx context.Context, isbn string) (b *book.Book, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.delete")
	span.SetAttributes(attribute.String("book.isbn", isbn))
	start := time.Now()
	defer func() {
		metrics.RecordBookOperation(metrics.OpDelete, start, err)
		tracing.EndSpan(span, err)
	}()

	b, err = uc.bookService.Delete(ctx, isbn)
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, uc.publisher, uc.logger, book.NewEvent(book.EventDeleted, isbn, b))
	return b, nil
}
