package book_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appbook "github.com/xiebiao/bookstore-api/internal/application/book"
	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/memory"
)

const testISBN = "978-3-16-148410-0"

// recordingPublisher 记录收到的事件,err非nil时每次发布都失败
type recordingPublisher struct {
	mu     sync.Mutex
	events []book.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event book.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	create *appbook.CreateBookUseCase
	list   *appbook.ListBooksUseCase
	get    *appbook.GetBookUseCase
	update *appbook.UpdateBookUseCase
	delete *appbook.DeleteBookUseCase
	events *recordingPublisher
}

func newFixture(logger *zap.Logger) *fixture {
	svc := book.NewService(memory.NewBookRepository())
	events := &recordingPublisher{}
	return &fixture{
		create: appbook.NewCreateBookUseCase(svc, events, logger),
		list:   appbook.NewListBooksUseCase(svc),
		get:    appbook.NewGetBookUseCase(svc),
		update: appbook.NewUpdateBookUseCase(svc, events, logger),
		delete: appbook.NewDeleteBookUseCase(svc, events, logger),
		events: events,
	}
}

func testRequest(isbn string) appbook.CreateBookRequest {
	return appbook.CreateBookRequest{
		ISBN:          isbn,
		Title:         "Test Book",
		Author:        "Test Author",
		PublishedDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Summary:       "Test Summary",
	}
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(zap.NewNop())

	created, err := f.create.Execute(ctx, testRequest(testISBN))
	require.NoError(t, err)
	assert.Equal(t, testISBN, created.ISBN)

	page, err := f.list.Execute(ctx, appbook.ListBooksRequest{Page: 1, Limit: 10, Search: "test"})
	require.NoError(t, err)
	require.Len(t, page.Books, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.TotalPages)

	title := "Updated Title"
	updated, err := f.update.Execute(ctx, appbook.UpdateBookRequest{ISBN: testISBN, Patch: book.Patch{Title: &title}})
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", updated.Title)
	assert.Equal(t, "Test Author", updated.Author)

	got, err := f.get.Execute(ctx, testISBN)
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", got.Title)

	deleted, err := f.delete.Execute(ctx, testISBN)
	require.NoError(t, err)
	assert.Equal(t, testISBN, deleted.ISBN)

	_, err = f.get.Execute(ctx, testISBN)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	assert.Equal(t, []string{book.EventCreated, book.EventUpdated, book.EventDeleted}, f.events.types())
}

func TestCreateMany(t *testing.T) {
	ctx := context.Background()
	f := newFixture(zap.NewNop())

	books, err := f.create.ExecuteMany(ctx, []appbook.CreateBookRequest{
		testRequest("9780306406157"),
		testRequest("9781861972712"),
	})
	require.NoError(t, err)
	assert.Len(t, books, 2)
	assert.Equal(t, []string{book.EventCreated, book.EventCreated}, f.events.types())

	empty, err := f.create.ExecuteMany(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
	assert.Len(t, f.events.types(), 2, "空批量不发布事件")
}

func TestFailuresDoNotPublish(t *testing.T) {
	ctx := context.Background()
	f := newFixture(zap.NewNop())

	_, err := f.create.Execute(ctx, testRequest(testISBN))
	require.NoError(t, err)

	_, err = f.create.Execute(ctx, testRequest(testISBN))
	assert.ErrorIs(t, err, book.ErrISBNDuplicate)

	_, err = f.delete.Execute(ctx, "missing")
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	_, err = f.update.Execute(ctx, appbook.UpdateBookRequest{ISBN: testISBN})
	require.NoError(t, err, "空补丁等价于查询")

	assert.Equal(t, []string{book.EventCreated}, f.events.types())
}

func TestPublishFailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := newFixture(zap.New(core))
	f.events.err = errors.New("broker unavailable")

	_, err := appbook.NewCreateBookUseCase(
		book.NewService(memory.NewBookRepository()), f.events, zap.New(core),
	).Execute(context.Background(), testRequest(testISBN))

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, book.EventCreated, logs.All()[0].ContextMap()["event"])
}

func TestUpdateEventCarriesOriginalISBN(t *testing.T) {
	ctx := context.Background()
	f := newFixture(zap.NewNop())
	_, err := f.create.Execute(ctx, testRequest(testISBN))
	require.NoError(t, err)

	newISBN := "9780306406157"
	_, err = f.update.Execute(ctx, appbook.UpdateBookRequest{ISBN: testISBN, Patch: book.Patch{ISBN: &newISBN}})
	require.NoError(t, err)

	last := f.events.events[len(f.events.events)-1]
	assert.Equal(t, testISBN, last.ISBN)
	assert.Equal(t, newISBN, last.Book.ISBN)
}
