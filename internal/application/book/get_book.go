package book

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
	"github.com/xiebiao/bookstore-api/pkg/tracing"
)

// GetBookUseCase 按ISBN查询
type GetBookUseCase struct {
	bookService book.Service
}

func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

func (uc *GetBookUseCase) Execute(ctx context.Context, isbn string) (b *book.Book, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.get")
	span.SetAttributes(attribute.String("book.isbn", isbn))
	start := time.Now()
	defer func() {
		metrics.RecordBookOperation(metrics.OpGet, start, err)
		tracing.EndSpan(span, err)
	}()

	return uc.bookService.FindByISBN(ctx, isbn)
}
