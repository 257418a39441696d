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

// UpdateBookUseCase 部分更新
// 补丁可以修改ISBN本身;修改后旧ISBN不再可查
type UpdateBookUseCase struct {
	bookService book.Service
	publisher   book.EventPublisher
	logger      *zap.Logger
}

// NewUpdateBookUseCase 创建用例
func NewUpdateBookUseCase(bookService book.Service, publisher book.EventPublisher, logger *zap.Logger) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		publisher:   publisher,
		logger:      logger,
	}
}

// UpdateBookRequest 更新请求,Patch中nil字段保持不变
type UpdateBookRequest struct {
	ISBN  string
	Patch book.Patch
}

// Execute 执行更新
// 空补丁等价于按ISBN查询,不发布事件
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (b *book.Book, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.update")
	span.SetAttributes(
		attribute.String("book.isbn", req.ISBN),
		attribute.Bool("book.patch_empty", req.Patch.IsEmpty()),
	)
	start := time.Now()
	defer func() {
		metrics.RecordBookOperation(metrics.OpUpdate, start, err)
		tracing.EndSpan(span, err)
	}()

	b, err = uc.bookService.Update(ctx, req.ISBN, req.Patch)
	if err != nil {
		return nil, err
	}

	if !req.Patch.IsEmpty() {
		publishEvents(ctx, uc.publisher, uc.logger, book.NewEvent(book.EventUpdated, req.ISBN, b))
	}
	return b, nil
}
