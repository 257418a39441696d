package book

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
	"github.com/xiebiao/bookstore-api/pkg/tracing"
)

// ListBooksUseCase 图书列表查询用例
// 分页参数的默认值与范围限制在领域层(ListParams.Normalize)
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page   int    // 页码(从1开始)
	Limit  int    // 每页数量(1-100)
	Search string // 正则,匹配ISBN、书名、作者、摘要、出版日期(YYYY-MM-DD)
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (page *book.Page, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.list")
	span.SetAttributes(
		attribute.Int("book.page", req.Page),
		attribute.Int("book.limit", req.Limit),
		attribute.String("book.search", req.Search),
	)
	start := time.Now()
	defer func() {
		metrics.RecordBookOperation(metrics.OpList, start, err)
		tracing.EndSpan(span, err)
	}()

	page, err = uc.bookService.FindAll(ctx, book.ListParams{
		Page:   req.Page,
		Limit:  req.Limit,
		Search: req.Search,
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("book.total", page.Total))
	return page, nil
}
