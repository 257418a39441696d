package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, message any) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

func newEvent(eventType string) book.Event {
	b := book.NewBook("978-3-16-148410-0", "Test Book", "Test Author",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "Test Summary")
	return book.NewEvent(eventType, b.ISBN, b)
}

func TestBookEventPublisher_Publish(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, book.EventCreated, mock.AnythingOfType("messaging.bookEventMessage")).
		Return(nil).Once()

	p := NewBookEventPublisher(pub, circuitbreaker.New("test-publish", circuitbreaker.DefaultConfig()), zap.NewNop())
	require.NoError(t, p.Publish(context.Background(), newEvent(book.EventCreated)))

	pub.AssertExpectations(t)
	msg := pub.Calls[0].Arguments.Get(2).(bookEventMessage)
	assert.Equal(t, "978-3-16-148410-0", msg.ISBN)
	require.NotNil(t, msg.Book)
	assert.Equal(t, "2024-01-01", msg.Book.PublishedDate)
}

func TestBookEventPublisher_FailureWrapped(t *testing.T) {
	brokerErr := errors.New("connection closed")
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, book.EventDeleted, mock.Anything).Return(brokerErr)

	p := NewBookEventPublisher(pub, circuitbreaker.New("test-failure", circuitbreaker.DefaultConfig()), zap.NewNop())
	err := p.Publish(context.Background(), newEvent(book.EventDeleted))

	assert.ErrorIs(t, err, brokerErr)
	assert.ErrorIs(t, err, apperrors.ErrMQError)
}

func TestBookEventPublisher_OpenBreakerDropsEvents(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	cfg := circuitbreaker.DefaultConfig()
	cfg.ReadyToTrip = circuitbreaker.ConsecutiveFailures(2)
	p := NewBookEventPublisher(pub, circuitbreaker.New("test-open", cfg), zap.NewNop())

	for i := 0; i < 2; i++ {
		_ = p.Publish(context.Background(), newEvent(book.EventUpdated))
	}
	err := p.Publish(context.Background(), newEvent(book.EventUpdated))

	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), newEvent(book.EventCreated)))
}
