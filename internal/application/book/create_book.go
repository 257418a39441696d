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

// CreateBookUseCase 创建图书用例(单本或批量)
// 设计说明:
// 1. 应用层负责用例编排:追踪、指标、事件
// 2. 输入已经过HTTP层校验,这里不再重复校验
// 3. 存储成功后才发布book.created事件
type CreateBookUseCase struct {
	bookService book.Service
	publisher   book.EventPublisher
	logger      *zap.Logger
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service, publisher book.EventPublisher, logger *zap.Logger) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateBookRequest 创建请求
type CreateBookRequest struct {
	ISBN          string
	Title         string
	Author        string
	PublishedDate time.Time
	Summary       string
}

func (r CreateBookRequest) toBook() *book.Book {
	return book.NewBook(r.ISBN, r.Title, r.Author, r.PublishedDate, r.Summary)
}

// Execute 创建单本图书
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (b *book.Book, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.create")
	span.SetAttributes(attribute.String("book.isbn", req.ISBN))
	start := time.Now()
	defer func() {
		metrics.RecordBookOperation(metrics.OpCreate, start, err)
		tracing.EndSpan(span, err)
	}()

	b, err = uc.bookService.Create(ctx, req.toBook())
	if err != nil {
		return nil, err
	}

	metrics.AddBooksCreated(1)
	publishEvents(ctx, uc.publisher, uc.logger, book.NewEvent(book.EventCreated, b.ISBN, b))
	return b, nil
}

// ExecuteMany 批量创建(一次存储调用)
// 空输入返回空数组,不访问存储
func (uc *CreateBookUseCase) ExecuteMany(ctx context.Context, reqs []CreateBookRequest) (books []*book.Book, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.create_many")
	span.SetAttributes(attribute.Int("book.count", len(reqs)))
	start := time.Now()
	defer func() {
		metrics.RecordBookOperation(metrics.OpCreateMany, start, err)
		tracing.EndSpan(span, err)
	}()

	input := make([]*book.Book, len(reqs))
	for i, r := range reqs {
		input[i] = r.toBook()
	}

	books, err = uc.bookService.CreateMany(ctx, input)
	if err != nil {
		return nil, err
	}

	metrics.AddBooksCreated(len(books))
	events := make([]book.Event, len(books))
	for i, b := range books {
		events[i] = book.NewEvent(book.EventCreated, b.ISBN, b)
	}
	publishEvents(ctx, uc.publisher, uc.logger, events...)
	return books, nil
}
